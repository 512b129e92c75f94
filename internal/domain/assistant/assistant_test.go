package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

type mockAssist struct {
	mock.Mock
}

func (m *mockAssist) Assist(ctx context.Context, req gateway.AssistRequest) (*gateway.AssistResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*gateway.AssistResponse)
	return resp, args.Error(1)
}

func storeWithFile(t *testing.T) *workspace.Store {
	t.Helper()
	store := workspace.New()
	require.NoError(t, store.OpenSession(types.Session{
		ID: "app", Title: "App.tsx", Content: "export default App", Language: "typescript",
	}))
	return store
}

func TestSubmitWithoutSessionRejectsLocally(t *testing.T) {
	gw := new(mockAssist)
	store := workspace.New()
	a := New(store, gw)

	for _, mode := range []types.AssistMode{types.ModeExplain, types.ModeRefactor, types.ModeTest, types.ModeFix} {
		_, err := a.Submit(context.Background(), mode, "what does this do")
		assert.ErrorIs(t, err, ErrNoActiveSession, "mode %s", mode)
	}

	gw.AssertNotCalled(t, "Assist", mock.Anything, mock.Anything)
	assert.Empty(t, store.Conversation())
}

func TestSubmitChatWithoutSession(t *testing.T) {
	gw := new(mockAssist)
	gw.On("Assist", mock.Anything, gateway.AssistRequest{
		Mode: types.ModeChat, Code: "", Language: types.DefaultLanguage, Context: "hello",
	}).Return(&gateway.AssistResponse{Result: "hi"}, nil)

	store := workspace.New()
	reply, err := New(store, gw).Submit(context.Background(), types.ModeChat, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.Answer.Content)
	gw.AssertExpectations(t)
}

func TestSubmitAppendsQuestionThenAnswer(t *testing.T) {
	gw := new(mockAssist)
	gw.On("Assist", mock.Anything, gateway.AssistRequest{
		Mode: types.ModeExplain, Code: "export default App", Language: "typescript", Context: "explain",
	}).Return(&gateway.AssistResponse{Result: "It exports App."}, nil)

	store := storeWithFile(t)
	reply, err := New(store, gw).Submit(context.Background(), types.ModeExplain, "explain")
	require.NoError(t, err)
	assert.True(t, reply.Latest)

	log := store.Conversation()
	require.Len(t, log, 2)
	assert.Equal(t, types.RoleUser, log[0].Role)
	assert.Equal(t, "explain", log[0].Content)
	assert.Equal(t, types.ModeExplain, log[0].Mode)
	assert.Equal(t, types.RoleAssistant, log[1].Role)
	assert.Equal(t, "It exports App.", log[1].Content)
	assert.True(t, log[1].Timestamp.After(log[0].Timestamp))
	assert.Equal(t, reply.Question, log[0])
	assert.Equal(t, reply.Answer, log[1])
}

func TestSubmitFailureKeepsQuestion(t *testing.T) {
	gw := new(mockAssist)
	gw.On("Assist", mock.Anything, mock.Anything).Return(nil, gateway.FromStatus(429, "slow down"))

	store := storeWithFile(t)
	_, err := New(store, gw).Submit(context.Background(), types.ModeFix, "fix it")
	assert.ErrorIs(t, err, gateway.ErrRateLimited)

	log := store.Conversation()
	require.Len(t, log, 1)
	assert.Equal(t, types.RoleUser, log[0].Role)

	// workspace is still usable after the error
	require.NoError(t, store.SetTheme(types.ThemePearl))
}

func TestSubmitValidation(t *testing.T) {
	gw := new(mockAssist)
	store := storeWithFile(t)
	a := New(store, gw)

	_, err := a.Submit(context.Background(), "poetry", "x")
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = a.Submit(context.Background(), types.ModeChat, "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	assert.Empty(t, store.Conversation())
	gw.AssertNotCalled(t, "Assist", mock.Anything, mock.Anything)
}

func TestStoreStaysMutableDuringCall(t *testing.T) {
	release := make(chan struct{})
	gw := new(mockAssist)
	gw.On("Assist", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(&gateway.AssistResponse{Result: "done"}, nil)

	store := storeWithFile(t)
	results := New(store, gw).SubmitAsync(context.Background(), types.ModeRefactor, "tidy")

	// while the gateway call is outstanding the session can be closed
	require.Eventually(t, func() bool { return len(store.Conversation()) == 1 }, time.Second, time.Millisecond)
	assert.True(t, store.CloseSession("app"))
	_, err := store.TogglePanel(types.PanelGit)
	require.NoError(t, err)
	close(release)

	res := <-results
	require.NoError(t, res.Err)
	assert.Equal(t, "done", res.Reply.Answer.Content)
	assert.Len(t, store.Conversation(), 2)
}

func TestSubmitAsyncReportsValidationImmediately(t *testing.T) {
	gw := new(mockAssist)
	res := <-New(workspace.New(), gw).SubmitAsync(context.Background(), types.ModeTest, "tests please")
	assert.ErrorIs(t, res.Err, ErrNoActiveSession)
	assert.Nil(t, res.Reply)
}

func TestSupersededReplyIsNotLatest(t *testing.T) {
	first := make(chan struct{})
	gw := new(mockAssist)
	gw.On("Assist", mock.Anything, mock.MatchedBy(func(r gateway.AssistRequest) bool { return r.Context == "one" })).
		Run(func(mock.Arguments) { <-first }).
		Return(&gateway.AssistResponse{Result: "1"}, nil)
	gw.On("Assist", mock.Anything, mock.MatchedBy(func(r gateway.AssistRequest) bool { return r.Context == "two" })).
		Return(&gateway.AssistResponse{Result: "2"}, nil)

	store := storeWithFile(t)
	a := New(store, gw)

	slow := a.SubmitAsync(context.Background(), types.ModeChat, "one")
	require.Eventually(t, func() bool { return len(store.Conversation()) == 1 }, time.Second, time.Millisecond)

	fast, err := a.Submit(context.Background(), types.ModeChat, "two")
	require.NoError(t, err)
	assert.True(t, fast.Latest)

	close(first)
	res := <-slow
	require.NoError(t, res.Err)
	assert.False(t, res.Reply.Latest)
	assert.Len(t, store.Conversation(), 4)
}

func TestSubmitWrapsUnknownErrors(t *testing.T) {
	gw := new(mockAssist)
	gw.On("Assist", mock.Anything, mock.Anything).Return(nil, gateway.Unknown(errors.New("boom")))

	_, err := New(storeWithFile(t), gw).Submit(context.Background(), types.ModeChat, "hi")
	assert.ErrorIs(t, err, gateway.ErrUnknown)
	assert.True(t, strings.HasPrefix(err.Error(), "assist chat"))
}
