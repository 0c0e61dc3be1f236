package connectionhub

import (
	"hr-workflow-backend/db"
	pushstore "hr-workflow-backend/lib/ws/push-store"
	dbmodels "hr-workflow-backend/models/db"
	wsmodels "hr-workflow-backend/models/ws"
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const timeFormat = "02.01.2006 15:04:05"

type Provider interface {
	AddClient(userID string, conn *websocket.Conn)
	// DeleteClient закрытие сессии; сессия, уже замененная новым подключением, не трогается
	DeleteClient(userID string, conn *websocket.Conn)
	// SendMessage отправка уведомления; без подключения оно сохраняется до следующего входа
	SendMessage(msg wsmodels.ServerMessage)
	IsConnected(userID string) bool
}

var Instance Provider

func Init() {
	Instance = NewHub(pushstore.NewInstance(db.DB))
}

func NewHub(store pushstore.Provider) Provider {
	return &impl{
		clients: map[string]clientSession{},
		store:   store,
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[string]clientSession //map[userID]
	store   pushstore.Provider
}

func (i *impl) DeleteClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn != conn {
		return
	}
	delete(i.clients, userID)
	sess.stop()
	close(sess.sendCh)
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	if ok {
		oldSess.stop()
	}
	i.clients[userID] = newSession(userID, conn)
	i.mu.Unlock()
	go i.sendDelayedMessages(userID)
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	if i.trySend(msg) {
		return
	}
	rec := dbmodels.PushData{
		UserID:              msg.ToUserID,
		Code:                msg.Code,
		Msg:                 msg.Msg,
		CandidateWorkflowID: msg.CandidateWorkflowID,
		ExecutionID:         msg.ExecutionID,
	}
	if err := i.store.Create(rec); err != nil {
		log.WithField("user_id", msg.ToUserID).WithError(err).Error("ошибка сохранения не отправленного уведомления")
	}
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}

// trySend без ожидания: при переполненном буфере сессии сообщение не отправляется
func (i *impl) trySend(msg wsmodels.ServerMessage) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.clients[msg.ToUserID]
	if !ok {
		return false
	}
	select {
	case sess.sendCh <- msg:
		return true
	default:
		return false
	}
}

func (i *impl) sendDelayedMessages(userID string) {
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка не отправленных уведомлений")
		return
	}
	sendedIDs := []string{}
	for _, item := range list {
		msg := wsmodels.ServerMessage{
			ToUserID:            userID,
			Time:                item.CreatedAt.Format(timeFormat),
			Code:                item.Code,
			Msg:                 item.Msg,
			CandidateWorkflowID: item.CandidateWorkflowID,
			ExecutionID:         item.ExecutionID,
		}
		if !i.trySend(msg) {
			break
		}
		sendedIDs = append(sendedIDs, item.ID)
	}
	if len(sendedIDs) > 0 {
		if err = i.store.Delete(sendedIDs); err != nil {
			logger.WithError(err).Error("ошибка удаления отправленных уведомлений")
		}
	}
}
