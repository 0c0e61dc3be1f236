package graph

import (
	"hr-workflow-backend/lib/workflow/condition"
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func activeNode(id string, order int) Node {
	return Node{
		ID:            id,
		Type:          models.NodeTypeInterview,
		Title:         "Этап " + id,
		SequenceOrder: order,
		Status:        models.NodeStatusActive,
	}
}

// linear граф из count этапов "1" -> "2" -> ... со связями success
func linear(t *testing.T, count int) *Graph {
	g := New("wf", models.WorkflowStatusDraft)
	for k := 1; k <= count; k++ {
		require.Nil(t, g.AddNode(activeNode(strconv.Itoa(k), k)))
	}
	for k := 1; k < count; k++ {
		require.Nil(t, g.AddConnection(Connection{
			ID:            "c" + strconv.Itoa(k),
			SourceID:      strconv.Itoa(k),
			TargetID:      strconv.Itoa(k + 1),
			ConditionType: models.ConditionSuccess,
		}))
	}
	return g
}

func minScore(v float64) *condition.Config {
	return &condition.Config{MinScore: &v}
}

func ids(nodes []Node) []string {
	return nodeIDs(nodes)
}

func TestBuild(t *testing.T) {
	t.Run(`Build check`, func(t *testing.T) {
		wf := dbmodels.Workflow{Status: models.WorkflowStatusActive}
		wf.ID = "wf"
		nodes := []dbmodels.WorkflowNode{
			{WorkflowID: "wf", SequenceOrder: 1, NodeType: models.NodeTypeTodo, Status: models.NodeStatusActive},
			{WorkflowID: "wf", SequenceOrder: 2, NodeType: models.NodeTypeAssessment, Status: models.NodeStatusActive},
		}
		nodes[0].ID = "n1"
		nodes[1].ID = "n2"
		conns := []dbmodels.NodeConnection{
			{WorkflowID: "wf", SourceNodeID: "n1", TargetNodeID: "n2", ConditionType: models.ConditionConditional, ConditionConfig: []byte(`{"min_score": 50}`)},
		}
		conns[0].ID = "c1"

		g, err := Build(wf, nodes, conns)
		require.Nil(t, err)
		require.Equal(t, []string{"n1", "n2"}, ids(g.Nodes()))
		require.Len(t, g.Outgoing("n1"), 1)
		require.Equal(t, 50.0, *g.Outgoing("n1")[0].Condition.MinScore)
		require.Len(t, g.Incoming("n2"), 1)

		conns[0].TargetNodeID = "missing"
		_, err = Build(wf, nodes, conns)
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
	})
}

func TestMutations(t *testing.T) {
	t.Run(`AddNode check`, func(t *testing.T) {
		g := linear(t, 2)
		err := g.AddNode(activeNode("1", 5))
		require.True(t, errors.Is(err, wferrors.ErrAlreadyExists))

		err = g.AddNode(activeNode("x", 2))
		require.True(t, errors.Is(err, wferrors.ErrInvalidArgument))

		err = g.AddNode(activeNode("x", 0))
		require.True(t, errors.Is(err, wferrors.ErrInvalidArgument))

		node := activeNode("x", 3)
		node.Type = "meeting"
		err = g.AddNode(node)
		require.True(t, errors.Is(err, wferrors.ErrInvalidArgument))

		require.Nil(t, g.AddNode(activeNode("x", 3)))
		require.Equal(t, 3, g.MaxSequenceOrder())
	})

	t.Run(`UpdateNode check`, func(t *testing.T) {
		g := linear(t, 2)
		node := activeNode("2", 10)
		node.Title = "Финальное интервью"
		node.CanSkip = true
		require.Nil(t, g.UpdateNode(node))
		updated, ok := g.Node("2")
		require.True(t, ok)
		require.Equal(t, "Финальное интервью", updated.Title)
		require.Equal(t, 2, updated.SequenceOrder)
		require.True(t, updated.CanSkip)

		err := g.UpdateNode(activeNode("404", 1))
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
	})

	t.Run(`not editable check`, func(t *testing.T) {
		for _, status := range []models.WorkflowStatus{models.WorkflowStatusActive, models.WorkflowStatusArchived} {
			g := linear(t, 2)
			g.Status = status
			require.True(t, errors.Is(g.AddNode(activeNode("x", 3)), wferrors.ErrNotEditable))
			require.True(t, errors.Is(g.UpdateNode(activeNode("1", 1)), wferrors.ErrInvalidTransition))
			_, err := g.RemoveNode("1", 0)
			require.True(t, errors.Is(err, wferrors.ErrNotEditable))
			_, err = g.RemoveConnection("c1")
			require.True(t, errors.Is(err, wferrors.ErrNotEditable))
			_, err = g.PlanReorder([]OrderItem{{NodeID: "1", NewOrder: 2}, {NodeID: "2", NewOrder: 1}}, 1000)
			require.True(t, errors.Is(err, wferrors.ErrNotEditable))
		}
		g := linear(t, 2)
		g.Status = models.WorkflowStatusInactive
		require.Nil(t, g.AddNode(activeNode("x", 3)))
	})

	t.Run(`AddConnection check`, func(t *testing.T) {
		g := linear(t, 3)
		err := g.AddConnection(Connection{ID: "dup", SourceID: "1", TargetID: "2", ConditionType: models.ConditionAlways})
		require.True(t, errors.Is(err, wferrors.ErrDuplicateConnection))

		err = g.AddConnection(Connection{ID: "self", SourceID: "1", TargetID: "1", ConditionType: models.ConditionAlways})
		require.True(t, errors.Is(err, wferrors.ErrInvalidArgument))

		err = g.AddConnection(Connection{ID: "lost", SourceID: "1", TargetID: "404", ConditionType: models.ConditionAlways})
		require.True(t, errors.Is(err, wferrors.ErrNotFound))

		err = g.AddConnection(Connection{ID: "cond", SourceID: "1", TargetID: "3", ConditionType: models.ConditionConditional})
		require.True(t, errors.Is(err, wferrors.ErrInvalidArgument))

		require.Nil(t, g.AddConnection(Connection{ID: "back", SourceID: "2", TargetID: "1", ConditionType: models.ConditionFailure}))
		require.Len(t, g.Connections(), 3)
	})

	t.Run(`RemoveConnection check`, func(t *testing.T) {
		g := linear(t, 3)
		conn, err := g.RemoveConnection("c1")
		require.Nil(t, err)
		require.Equal(t, "1", conn.SourceID)
		require.Empty(t, g.Outgoing("1"))
		require.Empty(t, g.Incoming("2"))
		require.Len(t, g.Connections(), 1)

		_, err = g.RemoveConnection("c1")
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
	})

	t.Run(`RemoveNode check`, func(t *testing.T) {
		g := linear(t, 3)
		removed, err := g.RemoveNode("2", 0)
		require.Nil(t, err)
		require.Len(t, removed, 2)
		_, ok := g.Node("2")
		require.False(t, ok)
		require.Empty(t, g.Connections())
		require.Empty(t, g.Outgoing("1"))
		require.Empty(t, g.Incoming("3"))

		_, err = g.RemoveNode("2", 0)
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
	})

	t.Run(`RemoveNode with executions check`, func(t *testing.T) {
		g := linear(t, 3)
		nodesBefore := g.Nodes()
		connsBefore := g.Connections()
		for _, count := range []int64{1, 2, 100} {
			removed, err := g.RemoveNode("2", count)
			require.True(t, errors.Is(err, wferrors.ErrHasExecutions))
			require.Nil(t, removed)
			require.Equal(t, nodesBefore, g.Nodes())
			require.Equal(t, connsBefore, g.Connections())
		}
	})
}

func TestNextNodes(t *testing.T) {
	t.Run(`linear scenario check`, func(t *testing.T) {
		g := linear(t, 3)
		next, err := g.NextNodes("1", "pass", nil)
		require.Nil(t, err)
		require.Equal(t, []string{"2"}, ids(next))

		next, err = g.NextNodes("1", "fail", nil)
		require.Nil(t, err)
		require.Empty(t, next)

		next, err = g.NextNodes("3", "pass", nil)
		require.Nil(t, err)
		require.Empty(t, next)

		_, err = g.NextNodes("404", "pass", nil)
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
	})

	t.Run(`conditional scenario check`, func(t *testing.T) {
		g := New("wf", models.WorkflowStatusDraft)
		require.Nil(t, g.AddNode(activeNode("1", 1)))
		require.Nil(t, g.AddNode(activeNode("2", 2)))
		require.Nil(t, g.AddNode(activeNode("3", 3)))
		require.Nil(t, g.AddConnection(Connection{ID: "a", SourceID: "1", TargetID: "2", ConditionType: models.ConditionConditional, Condition: minScore(80)}))
		require.Nil(t, g.AddConnection(Connection{ID: "b", SourceID: "1", TargetID: "3", ConditionType: models.ConditionAlways}))

		score := 70.0
		next, err := g.NextNodes("1", "pass", &score)
		require.Nil(t, err)
		require.Equal(t, []string{"3"}, ids(next))

		score = 85
		next, err = g.NextNodes("1", "pass", &score)
		require.Nil(t, err)
		require.Equal(t, []string{"2", "3"}, ids(next))
	})

	t.Run(`inactive target check`, func(t *testing.T) {
		g := linear(t, 2)
		node := activeNode("2", 2)
		node.Status = models.NodeStatusInactive
		require.Nil(t, g.UpdateNode(node))
		next, err := g.NextNodes("1", "approved", nil)
		require.Nil(t, err)
		require.Empty(t, next)
	})
}

func TestValidate(t *testing.T) {
	t.Run(`valid linear check`, func(t *testing.T) {
		result := linear(t, 3).Validate()
		require.True(t, result.IsValid)
		require.Empty(t, result.Issues)
		require.Empty(t, result.Warnings)
		require.Equal(t, []string{"1"}, result.StartNodes)
		require.Equal(t, []string{"3"}, result.EndNodes)
	})

	t.Run(`empty graph check`, func(t *testing.T) {
		result := New("wf", models.WorkflowStatusDraft).Validate()
		require.False(t, result.IsValid)
		require.Equal(t, IssueNoStartNode, result.Issues[0].Code)
	})

	t.Run(`cycle scenario check`, func(t *testing.T) {
		g := linear(t, 2)
		require.Nil(t, g.AddConnection(Connection{ID: "back", SourceID: "2", TargetID: "1", ConditionType: models.ConditionFailure}))
		result := g.Validate()
		require.False(t, result.IsValid)
		require.Len(t, result.Issues, 1)
		require.Equal(t, IssueCycleDetected, result.Issues[0].Code)
		require.ElementsMatch(t, []string{"1", "2"}, result.Issues[0].NodeIDs)
		require.Equal(t, IssueNoEndNode, result.Warnings[0].Code)

		paths, err := g.EnumeratePaths("1")
		require.Nil(t, err)
		require.Equal(t, [][]string{{"1", "2"}}, paths)
	})

	t.Run(`cycle iff check`, func(t *testing.T) {
		cases := []struct {
			edges [][2]string
			cycle bool
		}{
			{edges: nil, cycle: false},
			{edges: [][2]string{{"1", "2"}, {"2", "3"}, {"3", "4"}}, cycle: false},
			{edges: [][2]string{{"1", "2"}, {"1", "3"}, {"2", "4"}, {"3", "4"}}, cycle: false},
			{edges: [][2]string{{"1", "2"}, {"2", "3"}, {"3", "1"}}, cycle: true},
			{edges: [][2]string{{"1", "2"}, {"3", "4"}, {"4", "3"}}, cycle: true},
			{edges: [][2]string{{"2", "3"}, {"3", "4"}, {"4", "2"}, {"1", "4"}}, cycle: true},
			{edges: [][2]string{{"4", "3"}, {"3", "2"}, {"2", "1"}}, cycle: false},
		}
		for k, tc := range cases {
			g := New("wf", models.WorkflowStatusDraft)
			for n := 1; n <= 4; n++ {
				require.Nil(t, g.AddNode(activeNode(strconv.Itoa(n), n)))
			}
			for e, edge := range tc.edges {
				require.Nil(t, g.AddConnection(Connection{
					ID:            strconv.Itoa(e),
					SourceID:      edge[0],
					TargetID:      edge[1],
					ConditionType: models.ConditionAlways,
				}))
			}
			found := false
			for _, issue := range g.Validate().Issues {
				if issue.Code == IssueCycleDetected {
					found = true
				}
			}
			require.Equal(t, tc.cycle, found, "case %v", k)
			require.Equal(t, tc.cycle, g.HasCycle(), "case %v", k)
		}
	})

	t.Run(`first node is sole start check`, func(t *testing.T) {
		g := linear(t, 3)
		require.Nil(t, g.AddConnection(Connection{ID: "back", SourceID: "3", TargetID: "1", ConditionType: models.ConditionFailure}))
		require.Nil(t, g.AddNode(activeNode("4", 4)))
		result := g.Validate()
		require.Equal(t, []string{"1"}, result.StartNodes)
	})

	t.Run(`start nodes without first node check`, func(t *testing.T) {
		g := New("wf", models.WorkflowStatusDraft)
		require.Nil(t, g.AddNode(activeNode("a", 2)))
		require.Nil(t, g.AddNode(activeNode("b", 3)))
		require.Nil(t, g.AddNode(activeNode("c", 4)))
		require.Nil(t, g.AddConnection(Connection{ID: "1", SourceID: "a", TargetID: "c", ConditionType: models.ConditionAlways}))
		require.Nil(t, g.AddConnection(Connection{ID: "2", SourceID: "b", TargetID: "c", ConditionType: models.ConditionAlways}))
		result := g.Validate()
		require.True(t, result.IsValid)
		require.Equal(t, []string{"a", "b"}, result.StartNodes)
		require.Equal(t, IssueMultipleStartNodes, result.Warnings[0].Code)

		inactive := activeNode("1", 1)
		inactive.Status = models.NodeStatusDraft
		require.Nil(t, g.AddNode(inactive))
		require.Equal(t, []string{"a", "b"}, g.Validate().StartNodes)
	})

	t.Run(`orphans check`, func(t *testing.T) {
		g := linear(t, 2)
		require.Nil(t, g.AddNode(activeNode("x", 3)))
		result := g.Validate()
		require.True(t, result.IsValid)
		require.Equal(t, IssueUnreachableNodes, result.Warnings[0].Code)
		require.Equal(t, []string{"x"}, result.Warnings[0].NodeIDs)

		require.Nil(t, g.AddNode(activeNode("y", 4)))
		result = g.Validate()
		require.False(t, result.IsValid)
		require.Equal(t, IssueOrphanedNodes, result.Issues[0].Code)
		require.Equal(t, []string{"x", "y"}, result.Issues[0].NodeIDs)
	})
}

func TestEnumeratePaths(t *testing.T) {
	t.Run(`branches check`, func(t *testing.T) {
		g := New("wf", models.WorkflowStatusDraft)
		for k, id := range []string{"1", "2", "3", "4"} {
			require.Nil(t, g.AddNode(activeNode(id, k+1)))
		}
		edges := [][2]string{{"1", "2"}, {"1", "3"}, {"2", "4"}, {"3", "4"}}
		for k, edge := range edges {
			require.Nil(t, g.AddConnection(Connection{ID: strconv.Itoa(k), SourceID: edge[0], TargetID: edge[1], ConditionType: models.ConditionAlways}))
		}
		paths, err := g.EnumeratePaths("")
		require.Nil(t, err)
		require.Equal(t, [][]string{{"1", "2", "4"}, {"1", "3", "4"}}, paths)

		paths, err = g.EnumeratePaths("3")
		require.Nil(t, err)
		require.Equal(t, [][]string{{"3", "4"}}, paths)

		_, err = g.EnumeratePaths("404")
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
	})

	t.Run(`isolated node check`, func(t *testing.T) {
		g := linear(t, 2)
		require.Nil(t, g.AddNode(activeNode("x", 3)))
		paths, err := g.EnumeratePaths("")
		require.Nil(t, err)
		require.Equal(t, [][]string{{"1", "2"}, {"x"}}, paths)
	})

	t.Run(`cycle inside branch check`, func(t *testing.T) {
		g := linear(t, 4)
		require.Nil(t, g.AddConnection(Connection{ID: "back", SourceID: "3", TargetID: "2", ConditionType: models.ConditionFailure}))
		paths, err := g.EnumeratePaths("1")
		require.Nil(t, err)
		require.Equal(t, [][]string{{"1", "2", "3", "4"}, {"1", "2", "3"}}, paths)
	})
}
