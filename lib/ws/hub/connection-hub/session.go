package connectionhub

import (
	"context"
	wsmodels "hr-workflow-backend/models/ws"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const sendBuffer = 16

type clientSession struct {
	conn   *websocket.Conn
	userID string

	// исходящие сообщения, буферизованы
	sendCh chan wsmodels.ServerMessage
	stop   func()
}

func newSession(userID string, conn *websocket.Conn) clientSession {
	ctx, cancelFn := context.WithCancel(context.TODO())
	sess := clientSession{
		stop:   cancelFn,
		conn:   conn,
		userID: userID,
		sendCh: make(chan wsmodels.ServerMessage, sendBuffer),
	}
	go sess.startSend(ctx)
	return sess
}

func (s clientSession) startSend(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case msg, opened := <-s.sendCh:
			if !opened {
				return
			}
			if err := s.send(msg); err != nil {
				log.WithField("user_id", s.userID).WithError(err).Error("ошибка отправки уведомления")
			}
		}
	}
}

func (s clientSession) send(msg wsmodels.ServerMessage) error {
	if s.conn == nil || s.conn.Conn == nil {
		return nil
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	log.
		WithField("user_id", s.userID).
		WithField("code", msg.Code).
		Debug("отправлено уведомление")
	return nil
}

func (s clientSession) close() {
	if s.conn == nil || s.conn.Conn == nil {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Millisecond))
	if err != nil {
		log.WithField("user_id", s.userID).WithError(err).Error("ошибка закрытия соединения")
	}
}
