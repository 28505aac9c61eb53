package tickets

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/storage"
)

// fakeRepo keeps tickets in memory with the same transition semantics as
// the Postgres repository.
type fakeRepo struct {
	nextID    int64
	questions map[int64]*storage.Question
	messages  []storage.QuestionMessage
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, questions: make(map[int64]*storage.Question)}
}

func (r *fakeRepo) Create(_ context.Context, userID int64, text string) (storage.Question, error) {
	q := &storage.Question{
		ID:           r.nextID,
		UserID:       userID,
		QuestionText: text,
		Status:       storage.StatusOpen,
	}
	r.nextID++
	r.questions[q.ID] = q
	return *q, nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (storage.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return storage.Question{}, storage.ErrNotFound
	}
	return *q, nil
}

func (r *fakeRepo) Claim(_ context.Context, id, adminID int64) (storage.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return storage.Question{}, storage.ErrNotFound
	}
	if q.Status == storage.StatusClosed {
		return storage.Question{}, storage.ErrTicketClosed
	}
	q.AdminID = sql.NullInt64{Int64: adminID, Valid: true}
	q.Status = storage.StatusInProgress
	return *q, nil
}

func (r *fakeRepo) Close(_ context.Context, id int64) (storage.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return storage.Question{}, storage.ErrNotFound
	}
	q.Status = storage.StatusClosed
	return *q, nil
}

func (r *fakeRepo) LatestByUser(_ context.Context, userID int64) (storage.Question, error) {
	var latest *storage.Question
	for _, q := range r.questions {
		if q.UserID != userID {
			continue
		}
		if latest == nil || q.ID > latest.ID {
			latest = q
		}
	}
	if latest == nil {
		return storage.Question{}, storage.ErrNotFound
	}
	return *latest, nil
}

func (r *fakeRepo) ListOpen(_ context.Context) ([]storage.Question, error) {
	var open []storage.Question
	for _, q := range r.questions {
		if q.Status != storage.StatusClosed {
			open = append(open, *q)
		}
	}
	return open, nil
}

func (r *fakeRepo) AppendMessage(_ context.Context, questionID, senderID int64, text string) error {
	r.messages = append(r.messages, storage.QuestionMessage{
		QuestionID:  questionID,
		SenderID:    senderID,
		MessageText: text,
	})
	return nil
}

type notification struct {
	kind     string
	chatID   int64
	ticketID int64
	text     string
}

// fakeNotifier records every delivery; chat IDs listed in failFor error
// out instead.
type fakeNotifier struct {
	sent    []notification
	failFor map[int64]bool
}

func (n *fakeNotifier) deliver(kind string, chatID, ticketID int64, text string) error {
	if n.failFor[chatID] {
		return fmt.Errorf("chat %d unreachable", chatID)
	}
	n.sent = append(n.sent, notification{kind: kind, chatID: chatID, ticketID: ticketID, text: text})
	return nil
}

func (n *fakeNotifier) NotifyNewTicket(adminID int64, q storage.Question, askerName string) error {
	return n.deliver("new", adminID, q.ID, q.QuestionText)
}

func (n *fakeNotifier) NotifyClaimed(userID int64) error {
	return n.deliver("claimed", userID, 0, "")
}

func (n *fakeNotifier) NotifyClosed(chatID int64) error {
	return n.deliver("closed", chatID, 0, "")
}

func (n *fakeNotifier) RelayToUser(userID int64, text string) error {
	return n.deliver("to_user", userID, 0, text)
}

func (n *fakeNotifier) RelayToAdmin(adminID, ticketID int64, text string) error {
	return n.deliver("to_admin", adminID, ticketID, text)
}

func newTestService(adminIDs ...int64) (*Service, *fakeRepo, *fakeNotifier, *session.Store) {
	repo := newFakeRepo()
	notif := &fakeNotifier{failFor: make(map[int64]bool)}
	sessions := session.NewStore()
	return NewService(repo, notif, sessions, adminIDs), repo, notif, sessions
}

func awaitQuestion(sessions *session.Store, userID int64) {
	sessions.Update(userID, func(s *session.Session) {
		s.AwaitingQuestion = true
	})
}

func TestSubmitCreatesOpenTicketAndNotifiesAdmins(t *testing.T) {
	svc, repo, notif, sessions := newTestService(100, 200)
	awaitQuestion(sessions, 1)

	q, err := svc.Submit(context.Background(), 1, "@asker", "Как вступить в конвой?")
	require.NoError(t, err)

	assert.Equal(t, storage.StatusOpen, q.Status)
	stored, err := repo.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Как вступить в конвой?", stored.QuestionText)

	require.Len(t, notif.sent, 2)
	for _, n := range notif.sent {
		assert.Equal(t, "new", n.kind)
		assert.Equal(t, q.ID, n.ticketID)
		assert.Equal(t, "Как вступить в конвой?", n.text)
	}

	assert.False(t, sessions.Get(1).AwaitingQuestion, "submit must clear the prompt flag")
}

func TestSubmitWithoutPromptIsRejected(t *testing.T) {
	svc, repo, _, _ := newTestService(100)

	_, err := svc.Submit(context.Background(), 1, "@asker", "просто сообщение")
	assert.ErrorIs(t, err, ErrNotAwaiting)
	assert.Empty(t, repo.questions, "no ticket may be created without the prompt flag")
}

func TestSubmitSurvivesAdminNotificationFailure(t *testing.T) {
	svc, _, notif, sessions := newTestService(100, 200)
	notif.failFor[100] = true
	awaitQuestion(sessions, 1)

	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusOpen, q.Status)

	require.Len(t, notif.sent, 1)
	assert.Equal(t, int64(200), notif.sent[0].chatID)
}

func TestClaimAssignsAdminAndNotifiesAsker(t *testing.T) {
	svc, repo, notif, sessions := newTestService(100)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	notif.sent = nil

	claimed, err := svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusInProgress, claimed.Status)
	assert.Equal(t, int64(100), claimed.AdminID.Int64)

	assert.Equal(t, q.ID, sessions.Get(100).ActiveQuestion)
	require.Len(t, notif.sent, 1)
	assert.Equal(t, "claimed", notif.sent[0].kind)
	assert.Equal(t, int64(1), notif.sent[0].chatID)

	stored, _ := repo.Get(context.Background(), q.ID)
	assert.Equal(t, storage.StatusInProgress, stored.Status)
}

func TestClaimClosedTicketFails(t *testing.T) {
	svc, repo, _, sessions := newTestService(100)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = repo.Close(context.Background(), q.ID)
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), q.ID, 100)
	assert.ErrorIs(t, err, storage.ErrTicketClosed)

	stored, _ := repo.Get(context.Background(), q.ID)
	assert.Equal(t, storage.StatusClosed, stored.Status, "closed is terminal")
}

func TestConcurrentClaimLastWriterWins(t *testing.T) {
	svc, repo, _, sessions := newTestService(100, 200)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 200)
	require.NoError(t, err)

	stored, _ := repo.Get(context.Background(), q.ID)
	assert.Equal(t, int64(200), stored.AdminID.Int64)
}

func TestRelayFromUserForwardsVerbatim(t *testing.T) {
	svc, repo, notif, sessions := newTestService(100)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)
	notif.sent = nil

	require.NoError(t, svc.RelayFromUser(context.Background(), 1, "уточнение по вопросу"))

	require.Len(t, repo.messages, 1)
	assert.Equal(t, q.ID, repo.messages[0].QuestionID)
	assert.Equal(t, int64(1), repo.messages[0].SenderID)
	assert.Equal(t, "уточнение по вопросу", repo.messages[0].MessageText)

	require.Len(t, notif.sent, 1)
	assert.Equal(t, "to_admin", notif.sent[0].kind)
	assert.Equal(t, int64(100), notif.sent[0].chatID)
	assert.Equal(t, "уточнение по вопросу", notif.sent[0].text)
}

func TestRelayFromUserWithoutClaimedTicket(t *testing.T) {
	svc, _, _, sessions := newTestService(100)

	err := svc.RelayFromUser(context.Background(), 1, "ау")
	assert.ErrorIs(t, err, ErrNoActiveDialog)

	// An open but unclaimed ticket is not a dialog yet.
	awaitQuestion(sessions, 1)
	_, err = svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	err = svc.RelayFromUser(context.Background(), 1, "ещё сообщение")
	assert.ErrorIs(t, err, ErrNoActiveDialog)
}

func TestRelayAddressesOnlyLatestTicket(t *testing.T) {
	svc, repo, notif, sessions := newTestService(100)

	awaitQuestion(sessions, 1)
	first, err := svc.Submit(context.Background(), 1, "@asker", "первый вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), first.ID, 100)
	require.NoError(t, err)

	awaitQuestion(sessions, 1)
	second, err := svc.Submit(context.Background(), 1, "@asker", "второй вопрос")
	require.NoError(t, err)
	notif.sent = nil

	// The latest ticket is open, not in_progress, so nothing relays even
	// though an older in_progress ticket exists.
	err = svc.RelayFromUser(context.Background(), 1, "про первый вопрос")
	assert.ErrorIs(t, err, ErrNoActiveDialog)
	assert.Empty(t, repo.messages)

	_, err = svc.Claim(context.Background(), second.ID, 100)
	require.NoError(t, err)
	require.NoError(t, svc.RelayFromUser(context.Background(), 1, "про второй вопрос"))
	require.Len(t, repo.messages, 1)
	assert.Equal(t, second.ID, repo.messages[0].QuestionID)
}

func TestRelayFromAdmin(t *testing.T) {
	svc, repo, notif, sessions := newTestService(100)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)
	notif.sent = nil

	require.NoError(t, svc.RelayFromAdmin(context.Background(), 100, "ответ администратора"))

	require.Len(t, repo.messages, 1)
	assert.Equal(t, int64(100), repo.messages[0].SenderID)
	require.Len(t, notif.sent, 1)
	assert.Equal(t, "to_user", notif.sent[0].kind)
	assert.Equal(t, int64(1), notif.sent[0].chatID)
	assert.Equal(t, "ответ администратора", notif.sent[0].text)
}

func TestRelayFromAdminWithoutActiveTicket(t *testing.T) {
	svc, _, _, _ := newTestService(100)
	err := svc.RelayFromAdmin(context.Background(), 100, "кому это")
	assert.ErrorIs(t, err, ErrNoActiveDialog)
}

func TestCloseDirectClearsActiveAndNotifies(t *testing.T) {
	svc, repo, notif, sessions := newTestService(100)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)
	notif.sent = nil

	closed, err := svc.CloseDirect(context.Background(), q.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusClosed, closed.Status)
	assert.Zero(t, sessions.Get(100).ActiveQuestion)

	require.Len(t, notif.sent, 1)
	assert.Equal(t, "closed", notif.sent[0].kind)
	assert.Equal(t, int64(1), notif.sent[0].chatID)

	// The dialog is gone for both sides.
	err = svc.RelayFromUser(context.Background(), 1, "ещё вопрос")
	assert.ErrorIs(t, err, ErrNoActiveDialog)
	err = svc.RelayFromAdmin(context.Background(), 100, "поздний ответ")
	assert.ErrorIs(t, err, ErrNoActiveDialog)

	stored, _ := repo.Get(context.Background(), q.ID)
	assert.Equal(t, storage.StatusClosed, stored.Status)
}

// Direct close does not check ownership; any admin may close any ticket.
func TestCloseDirectByOtherAdmin(t *testing.T) {
	svc, repo, _, sessions := newTestService(100, 200)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)

	_, err = svc.CloseDirect(context.Background(), q.ID, 200)
	require.NoError(t, err)

	stored, _ := repo.Get(context.Background(), q.ID)
	assert.Equal(t, storage.StatusClosed, stored.Status)
	// The owning admin's session still points at the ticket; only their
	// own end-dialog clears it.
	assert.Equal(t, q.ID, sessions.Get(100).ActiveQuestion)
}

func TestEndDialogAdmin(t *testing.T) {
	svc, _, _, sessions := newTestService(100)

	assert.ErrorIs(t, svc.EndDialogAdmin(context.Background(), 100), ErrNoActiveDialog)

	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)

	require.NoError(t, svc.EndDialogAdmin(context.Background(), 100))
	assert.Zero(t, sessions.Get(100).ActiveQuestion)
}

func TestEndDialogUserNotifiesAdmin(t *testing.T) {
	svc, _, notif, sessions := newTestService(100)
	awaitQuestion(sessions, 1)
	q, err := svc.Submit(context.Background(), 1, "@asker", "вопрос")
	require.NoError(t, err)
	_, err = svc.Claim(context.Background(), q.ID, 100)
	require.NoError(t, err)
	notif.sent = nil

	require.NoError(t, svc.EndDialogUser(context.Background(), 1))

	assert.Zero(t, sessions.Get(100).ActiveQuestion)
	require.Len(t, notif.sent, 1)
	assert.Equal(t, "closed", notif.sent[0].kind)
	assert.Equal(t, int64(100), notif.sent[0].chatID)

	assert.ErrorIs(t, svc.EndDialogUser(context.Background(), 1), ErrNoActiveDialog)
}

func TestListOpenSkipsClosed(t *testing.T) {
	svc, _, _, sessions := newTestService(100)

	awaitQuestion(sessions, 1)
	first, err := svc.Submit(context.Background(), 1, "@asker", "первый")
	require.NoError(t, err)
	awaitQuestion(sessions, 2)
	second, err := svc.Submit(context.Background(), 2, "@other", "второй")
	require.NoError(t, err)

	_, err = svc.CloseDirect(context.Background(), first.ID, 100)
	require.NoError(t, err)

	open, err := svc.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)
}
