package tui

import (
	"testing"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/aretw0/aria/pkg/history"
	"github.com/aretw0/aria/pkg/registry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_SurvivesFallingBehind(t *testing.T) {
	reg, err := registry.NewBuilder().
		Immediate("help", "", domain.PlainLines("cmd1 - desc1")...).
		Build()
	require.NoError(t, err)
	console, err := aria.New(aria.WithRegistry(reg), aria.WithHistoryOptions(history.WithSubscriberBuffer(1)))
	require.NoError(t, err)
	defer console.Close()

	var model tea.Model = NewModel(console)
	defer model.(Model).Close()

	// Two changes against a buffer of one: the view is dropped.
	console.SubmitCommand("help")
	console.SubmitCommand("help")

	msg := model.(Model).waitForChange()()
	require.IsType(t, changeMsg{}, msg)
	model, cmd := model.Update(msg)

	msg = cmd()
	require.IsType(t, droppedMsg{}, msg)
	model, cmd = model.Update(msg)
	assert.Len(t, model.(Model).Lines(), 4)
	assert.NotEmpty(t, model.View())

	console.SubmitCommand("help")
	msg = cmd()
	require.IsType(t, changeMsg{}, msg)
	model, cmd = model.Update(msg)
	assert.Len(t, model.(Model).Lines(), 6)

	console.Close()
	assert.IsType(t, closedMsg{}, cmd())
}
