package session_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/command"
	"github.com/tartampluch/go-contacts/internal/console"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/i18n"
	"github.com/tartampluch/go-contacts/internal/session"
)

// MockSnapshot simulates the storage layer using testify/mock.
type MockSnapshot struct {
	mock.Mock
}

func (m *MockSnapshot) Load(ctx context.Context, book *contact.AddressBook) (bool, error) {
	args := m.Called(ctx, book)
	return args.Bool(0), args.Error(1)
}

func (m *MockSnapshot) Save(ctx context.Context, book *contact.AddressBook) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

type answer struct {
	line string
	err  error

	// cancel, when set, runs before the answer is returned.
	cancel context.CancelFunc
}

// ScriptedPrompter replays answers, then reports closed input.
type ScriptedPrompter struct {
	answers []answer
	prompts []string
}

func (p *ScriptedPrompter) Prompt(_ context.Context, text string) (string, error) {
	p.prompts = append(p.prompts, text)
	if len(p.answers) == 0 {
		return "", console.ErrInputClosed
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a.cancel != nil {
		a.cancel()
	}
	return a.line, a.err
}

func lines(ls ...string) []answer {
	out := make([]answer, len(ls))
	for i, l := range ls {
		out[i] = answer{line: l}
	}
	return out
}

type RecordingRenderer struct {
	texts []string
}

func (r *RecordingRenderer) Render(text string, _ console.Severity) {
	if text != "" {
		r.texts = append(r.texts, text)
	}
}

const welcome = "Welcome to the Address Book App!"

// FailingDispatcher fails on every command.
type FailingDispatcher struct{ err error }

func (f FailingDispatcher) Dispatch(context.Context, []string) (command.Outcome, error) {
	return command.Outcome{}, f.err
}

type fixture struct {
	book     *contact.AddressBook
	snap     *MockSnapshot
	prompter *ScriptedPrompter
	renderer *RecordingRenderer
	sess     *session.Session
}

func newFixture(answers []answer) *fixture {
	tr := i18n.New("en")
	book := contact.NewAddressBook()
	f := &fixture{
		book:     book,
		snap:     new(MockSnapshot),
		prompter: &ScriptedPrompter{answers: answers},
		renderer: &RecordingRenderer{},
	}
	f.sess = &session.Session{
		Book:     book,
		Snapshot: f.snap,
		Dispatcher: command.New(book, command.Deps{
			Translator: tr,
			Clock:      contact.RealClock{},
			Prompter:   f.prompter,
			Renderer:   f.renderer,
		}),
		Prompter:   f.prompter,
		Renderer:   f.renderer,
		Translator: tr,
	}
	return f
}

func TestSession_StopWords(t *testing.T) {
	for _, word := range []string{"exit", "close", "good bye", "  EXIT  ", "Good Bye"} {
		t.Run(word, func(t *testing.T) {
			f := newFixture(lines("add ann 380931112233", word, "add bob"))
			f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
			f.snap.On("Save", mock.Anything, f.book).Return(nil).Once()

			require.NoError(t, f.sess.Run(context.Background()))

			assert.Equal(t, []string{welcome, "Contact added successfully", "Good bye!"}, f.renderer.texts)
			assert.True(t, f.book.Has("ann"))
			assert.False(t, f.book.Has("bob"), "lines after the stop word are not read")
			f.snap.AssertExpectations(t)
		})
	}
}

func TestSession_Transcript(t *testing.T) {
	f := newFixture(lines(
		"hello",
		"ADD Ann 380931112233",
		"phone ann",
		"add ann 380500000000",
		"find nobody",
		"del zed",
		"fly",
		"",
		"exit",
	))
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.Anything, f.book).Return(nil)

	require.NoError(t, f.sess.Run(context.Background()))

	assert.Equal(t, []string{
		welcome,
		"How can I help you?",
		"Contact added successfully",
		"380931112233",
		"Contact with the same name already exists",
		"nothing found",
		"Contact not found",
		"I don't know such a command",
		"I don't know such a command",
		"Good bye!",
	}, f.renderer.texts)
	assert.Equal(t, "Input some command: ", f.prompter.prompts[0])
}

func TestSession_EndOfInputSaves(t *testing.T) {
	f := newFixture(lines("add ann 380931112233"))
	f.snap.On("Load", mock.Anything, f.book).Return(true, nil)
	f.snap.On("Save", mock.Anything, f.book).Return(nil).Once()

	require.NoError(t, f.sess.Run(context.Background()))
	f.snap.AssertExpectations(t)
	assert.Equal(t, []string{welcome, "Contact added successfully"}, f.renderer.texts)
}

func TestSession_InterruptContinues(t *testing.T) {
	f := newFixture([]answer{
		{err: console.ErrInterrupted},
		{line: "hello"},
		{err: console.ErrInterrupted},
		{line: "exit"},
	})
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.Anything, f.book).Return(nil)

	require.NoError(t, f.sess.Run(context.Background()))
	assert.Equal(t, []string{welcome, "How can I help you?", "Good bye!"}, f.renderer.texts)
	assert.Len(t, f.prompter.prompts, 4)
}

func TestSession_ContextCancelStillSaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newFixture([]answer{{err: context.Canceled}})
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), f.book).
		Return(nil).Once()

	require.NoError(t, f.sess.Run(ctx))
	f.snap.AssertExpectations(t)
}

func TestSession_TerminationWhilePagingSaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(append(
		lines("add a", "add b", "add c", "show_all"),
		answer{err: context.Canceled, cancel: cancel},
	))
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), f.book).
		Return(nil).Once()

	require.NoError(t, f.sess.Run(ctx))
	f.snap.AssertExpectations(t)
	assert.Equal(t, 3, f.book.Len(), "edits made before the signal are kept")
}

func TestSession_CancelledPromptInsideCommand(t *testing.T) {
	f := newFixture(append(
		lines("add a", "add b", "add c", "show_all"),
		answer{err: context.Canceled},
	))
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.Anything, f.book).Return(nil).Once()

	require.NoError(t, f.sess.Run(context.Background()))
	f.snap.AssertExpectations(t)
}

func TestSession_FilePathsKeepCase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "MyDir")
	require.NoError(t, os.Mkdir(dir, 0o700))
	vcf := filepath.Join(dir, "Out.vcf")

	f := newFixture(lines("ADD Ann 380931112233", "Export "+vcf, "IMPORT "+vcf, "exit"))
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.Anything, f.book).Return(nil)

	require.NoError(t, f.sess.Run(context.Background()))

	_, err := os.Stat(vcf)
	require.NoError(t, err, "the file is written at the path as typed")
	assert.Contains(t, f.renderer.texts, "Exported 1 contacts to "+vcf)
	assert.Contains(t, f.renderer.texts, "Imported 0 contacts, skipped 1")
	assert.True(t, f.book.Has("ann"), "names are still lower-cased")
}

func TestSession_LoadError(t *testing.T) {
	loadErr := errors.New("corrupt snapshot")
	f := newFixture(lines("exit"))
	f.snap.On("Load", mock.Anything, f.book).Return(false, loadErr)

	err := f.sess.Run(context.Background())
	assert.ErrorIs(t, err, loadErr)
	f.snap.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.prompter.prompts)
}

func TestSession_SaveError(t *testing.T) {
	saveErr := errors.New("disk full")
	f := newFixture(lines("exit"))
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)
	f.snap.On("Save", mock.Anything, f.book).Return(saveErr)

	assert.ErrorIs(t, f.sess.Run(context.Background()), saveErr)
}

func TestSession_UnexpectedErrorFailsFast(t *testing.T) {
	boom := errors.New("boom")
	f := newFixture(lines("hello", "exit"))
	f.sess.Dispatcher = FailingDispatcher{err: boom}
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)

	err := f.sess.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	f.snap.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSession_PromptErrorFailsFast(t *testing.T) {
	readErr := errors.New("read failed")
	f := newFixture([]answer{{err: readErr}})
	f.snap.On("Load", mock.Anything, f.book).Return(false, nil)

	err := f.sess.Run(context.Background())
	assert.ErrorIs(t, err, readErr)
}

func TestSession_WithRealPrompter(t *testing.T) {
	tr := i18n.New("en")
	book := contact.NewAddressBook()
	renderer := &RecordingRenderer{}
	in := strings.NewReader("add ann 380931112233\nphone ann\n")
	prompter := console.NewPrompter(in, io.Discard, nil)
	snap := new(MockSnapshot)
	snap.On("Load", mock.Anything, book).Return(false, nil)
	snap.On("Save", mock.Anything, book).Return(nil)

	sess := &session.Session{
		Book:       book,
		Snapshot:   snap,
		Dispatcher: command.New(book, command.Deps{Translator: tr, Prompter: prompter, Renderer: renderer}),
		Prompter:   prompter,
		Renderer:   renderer,
		Translator: tr,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sess.Run(ctx))
	assert.Equal(t, []string{welcome, "Contact added successfully", "380931112233"}, renderer.texts)
	snap.AssertCalled(t, "Save", mock.Anything, book)
}
