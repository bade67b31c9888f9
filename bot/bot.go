package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/repotrivia/config"
	"github.com/korjavin/repotrivia/database"
	"github.com/korjavin/repotrivia/github"
	"github.com/korjavin/repotrivia/models"
	"github.com/korjavin/repotrivia/quiz"
)

// sender is the part of *tgbotapi.BotAPI the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// starrer bookmarks repositories without blocking the caller
type starrer interface {
	StarAsync(accessToken, fullName string, done func(error))
}

// Bot represents the Telegram bot
type Bot struct {
	api         sender
	updates     func() tgbotapi.UpdatesChannel
	db          *database.DB
	stars       starrer
	githubToken string
	sessions    *quiz.Manager
}

const (
	cmdStart = "start"
	cmdNext  = "next"
	cmdHelp  = "help"
	cmdScore = "score"
	cmdStat  = "stat"
	cmdReset = "reset"

	callbackAnswer = "answer:"
	callbackNext   = "next"
	callbackStar   = "star:"
	callbackScore  = "score"
)

// New creates a new bot instance
func New(cfg *config.Config, sessions *quiz.Manager, db *database.DB, stars *github.Client) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = cfg.Debug
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	b := newBot(botAPI, sessions, db, stars, cfg.GitHubToken)
	b.updates = func() tgbotapi.UpdatesChannel {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		return botAPI.GetUpdatesChan(u)
	}
	return b, nil
}

func newBot(api sender, sessions *quiz.Manager, db *database.DB, stars starrer, githubToken string) *Bot {
	return &Bot{
		api:         api,
		db:          db,
		stars:       stars,
		githubToken: githubToken,
		sessions:    sessions,
	}
}

// Start starts the bot and listens for updates
func (b *Bot) Start() {
	log.Println("Starting bot polling...")

	for update := range b.updates() {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	} else if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

// handleMessage processes incoming messages
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	log.Printf("Received message from %s (ID: %d): %s", message.From.UserName, message.From.ID, message.Text)

	switch message.Command() {
	case cmdStart:
		b.handleStartCommand(message)
	case cmdNext:
		b.handleNext(message.Chat.ID, message.From.ID)
	case cmdHelp:
		b.sendMessage(message.Chat.ID, helpText)
	case cmdScore:
		b.handleScore(message.Chat.ID, message.From.ID)
	case cmdStat:
		b.handleStatCommand(message)
	case cmdReset:
		b.handleResetCommand(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /start to begin, /next for a new question, or /help for assistance.")
	}
}

const helpText = `Repo Trivia asks you questions about open-source repositories.

Commands:
/start - Start a quiz or show the current question
/next - Go to the next question after answering
/score - Show your score in this session
/stat - Show your statistics over all sessions
/reset - Throw away this session and start a new one
/help - Show this message`

// handleStartCommand handles the /start command
func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	session, created, err := b.sessions.GetOrStart(message.From.ID)
	if err != nil {
		log.Printf("Error starting session for user %d: %v", message.From.ID, err)
		b.sendMessage(message.Chat.ID, "Sorry, the quiz is not available right now.")
		return
	}

	if created {
		b.sendMessage(message.Chat.ID, fmt.Sprintf("Welcome to Repo Trivia! There are %d questions waiting for you.", session.Catalog().Len()))
	}
	b.sendCurrent(message.Chat.ID, session)
}

func (b *Bot) handleResetCommand(message *tgbotapi.Message) {
	session, err := b.sessions.Restart(message.From.ID)
	if err != nil {
		log.Printf("Error restarting session for user %d: %v", message.From.ID, err)
		b.sendMessage(message.Chat.ID, "Sorry, the quiz is not available right now.")
		return
	}
	b.sendMessage(message.Chat.ID, "Started a new quiz. Your score is back to 0.")
	b.sendQuestion(message.Chat.ID, session)
}

// handleNext moves to the next question after feedback, or repeats the
// current question when it has not been answered yet.
func (b *Bot) handleNext(chatID, userID int64) {
	session, err := b.sessions.Get(userID)
	if err != nil {
		b.sendMessage(chatID, "Please use /start to get your first question.")
		return
	}

	if _, err := session.Advance(); err != nil {
		if errors.Is(err, quiz.ErrNoFeedback) {
			b.sendMessage(chatID, "Please answer the current question first.")
			b.sendQuestion(chatID, session)
			return
		}
		log.Printf("Error advancing session %s: %v", session.ID(), err)
		return
	}
	b.sendQuestion(chatID, session)
}

func (b *Bot) handleScore(chatID, userID int64) {
	session, err := b.sessions.Get(userID)
	if err != nil {
		b.sendMessage(chatID, "Please use /start to get your first question.")
		return
	}
	b.sendMessage(chatID, scoreText(session))
}

// handleStatCommand handles the /stat command
func (b *Bot) handleStatCommand(message *tgbotapi.Message) {
	if b.db == nil {
		b.sendMessage(message.Chat.ID, "Statistics are not available.")
		return
	}

	correct, incorrect, err := b.db.GetUserStats(message.From.ID)
	if err != nil {
		log.Printf("Error getting user stats: %v", err)
		b.sendMessage(message.Chat.ID, "Sorry, I couldn't retrieve your statistics. Please try again later.")
		return
	}
	sessions, err := b.db.GetSessionCount(message.From.ID)
	if err != nil {
		log.Printf("Error getting session count: %v", err)
	}

	total := correct + incorrect
	var accuracy float64
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	statMessage := fmt.Sprintf(`📊 Your Statistics:

Quizzes Started: %d
Total Questions Answered: %d
Correct Answers: %d ✅
Incorrect Answers: %d ❌
Accuracy: %.1f%%`, sessions, total, correct, incorrect, accuracy)

	if incorrect > 0 {
		missed, err := b.db.GetMostFrequentIncorrectQuestions(message.From.ID, 3)
		if err != nil {
			log.Printf("Error getting incorrect questions: %v", err)
		}
		if len(missed) > 0 {
			statMessage += "\n\nMost Challenging Questions:\n"
			for i, m := range missed {
				statMessage += fmt.Sprintf("%d. %s (%s), missed %d times\n", i+1, m.RepoName, m.Type, m.Count)
			}
		}
	}

	b.sendMessage(message.Chat.ID, statMessage)
}

// handleCallback processes callback queries from inline buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	log.Printf("Handling callback from user %s (ID: %d) with data: %s",
		callback.From.UserName, callback.From.ID, callback.Data)

	if callback.Message == nil {
		b.sendCallbackResponse(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	switch {
	case strings.HasPrefix(callback.Data, callbackAnswer):
		b.handleAnswer(callback)
	case callback.Data == callbackNext:
		b.sendCallbackResponse(callback.ID, "")
		b.handleNext(chatID, userID)
	case strings.HasPrefix(callback.Data, callbackStar):
		b.handleStar(callback)
	case callback.Data == callbackScore:
		b.sendCallbackResponse(callback.ID, "")
		b.handleScore(chatID, userID)
	default:
		log.Printf("Invalid callback data: %s", callback.Data)
		b.sendCallbackResponse(callback.ID, "")
	}
}

// handleAnswer scores a tapped answer button. Buttons carry the number of
// answers given when the question was sent, so taps on old questions are ignored.
func (b *Bot) handleAnswer(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	seq, answerNum, err := parseAnswerData(callback.Data)
	if err != nil {
		log.Printf("Invalid answer callback %q: %v", callback.Data, err)
		b.sendCallbackResponse(callback.ID, "")
		return
	}

	session, err := b.sessions.Get(callback.From.ID)
	if err != nil {
		b.sendCallbackResponse(callback.ID, "This quiz has ended. Use /start to play.")
		return
	}
	if seq != session.Summary().TotalAnswered || session.State() != quiz.StatePresenting {
		b.sendCallbackResponse(callback.ID, "This question has already been answered.")
		return
	}

	question := session.Current()
	record, err := session.Submit(answerNum)
	switch {
	case errors.Is(err, quiz.ErrInvalidAnswerIndex):
		b.sendCallbackResponse(callback.ID, "That is not one of the options.")
		return
	case errors.Is(err, quiz.ErrAwaitingAdvance):
		b.sendCallbackResponse(callback.ID, "This question has already been answered.")
		return
	case err != nil:
		log.Printf("Error submitting answer for session %s: %v", session.ID(), err)
		b.sendCallbackResponse(callback.ID, "")
		return
	}

	log.Printf("User %d answered %d for %s: correct=%v", callback.From.ID, answerNum, question.Key(), record.Correct)
	if record.Correct {
		b.sendCallbackResponse(callback.ID, "✅ Correct!")
	} else {
		b.sendCallbackResponse(callback.ID, "❌ Wrong")
	}

	msg := tgbotapi.NewMessage(chatID, feedbackText(record, session.Summary()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Next question ➡️", callbackNext),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Score", callbackScore),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending feedback message: %v", err)
	}
}

// handleStar bookmarks the repository of the question being presented. Like
// answer buttons, the bookmark button carries the answer count from when the
// question was sent. The request runs in the background and never touches the session.
func (b *Bot) handleStar(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	if b.githubToken == "" || b.stars == nil {
		b.sendCallbackResponse(callback.ID, "You can bookmark a repo if you are logged in")
		return
	}
	seq, err := parseStarData(callback.Data)
	if err != nil {
		log.Printf("Invalid star callback %q: %v", callback.Data, err)
		b.sendCallbackResponse(callback.ID, "")
		return
	}
	session, err := b.sessions.Get(callback.From.ID)
	if err != nil {
		b.sendCallbackResponse(callback.ID, "This quiz has ended. Use /start to play.")
		return
	}
	if seq != session.Summary().TotalAnswered || session.State() != quiz.StatePresenting {
		b.sendCallbackResponse(callback.ID, "This question is no longer shown.")
		return
	}

	fullName := session.Current().Repo.FullName
	b.sendCallbackResponse(callback.ID, "Bookmarking "+fullName+"...")
	b.stars.StarAsync(b.githubToken, fullName, func(err error) {
		if err != nil {
			b.sendMessage(chatID, fmt.Sprintf("Could not bookmark %s.", fullName))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("⭐ Bookmarked %s", fullName))
	})
}

// sendCurrent shows the question being presented, or the pending feedback prompt
func (b *Bot) sendCurrent(chatID int64, session *quiz.Session) {
	if session.State() == quiz.StateFeedback {
		msg := tgbotapi.NewMessage(chatID, "You already answered this question. "+scoreText(session))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Next question ➡️", callbackNext)),
		)
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Error sending message: %v", err)
		}
		return
	}
	b.sendQuestion(chatID, session)
}

// sendQuestion sends the current question with one button per answer
func (b *Bot) sendQuestion(chatID int64, session *quiz.Session) {
	question := session.Current()
	seq := session.Summary().TotalAnswered

	msg := tgbotapi.NewMessage(chatID, questionText(question, session.Remaining(), b.githubToken != ""))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(answerKeyboard(question, seq, b.githubToken != "")...)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending question message: %v", err)
	}
}

func answerKeyboard(q models.Question, seq int, canStar bool) [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, answer := range q.Answers {
		button := tgbotapi.NewInlineKeyboardButtonData(answer, answerData(seq, i+1))
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(button))
	}
	if canStar {
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Bookmark", starData(seq)),
		))
	}
	return keyboard
}

func answerData(seq, answer int) string {
	return fmt.Sprintf("%s%d:%d", callbackAnswer, seq, answer)
}

func parseAnswerData(data string) (seq int, answer int, err error) {
	parts := strings.Split(strings.TrimPrefix(data, callbackAnswer), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 2 parts, got %d", len(parts))
	}
	if seq, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid sequence number: %w", err)
	}
	if answer, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid answer number: %w", err)
	}
	return seq, answer, nil
}

func starData(seq int) string {
	return fmt.Sprintf("%s%d", callbackStar, seq)
}

func parseStarData(data string) (int, error) {
	seq, err := strconv.Atoi(strings.TrimPrefix(data, callbackStar))
	if err != nil {
		return 0, fmt.Errorf("invalid sequence number: %w", err)
	}
	return seq, nil
}

func questionText(q models.Question, remaining int, canStar bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 %s\n\n%s", q.Repo.FullName, q.Question)
	if remaining == 0 {
		sb.WriteString("\n\n(You have answered every question, these are repeats now.)")
	}
	if !canStar {
		sb.WriteString("\n\nYou can bookmark a repo if you are logged in")
	}
	return sb.String()
}

func feedbackText(record models.AnsweredRecord, summary models.ScoreSummary) string {
	var line string
	if record.Correct {
		line = "✅ Correct! Well done!"
	} else {
		line = fmt.Sprintf("❌ Sorry, that's not correct. The right answer is: %s", record.Question.CorrectAnswer())
	}
	return line + "\n\n" + summaryText(summary)
}

func scoreText(session *quiz.Session) string {
	return summaryText(session.Summary())
}

func summaryText(s models.ScoreSummary) string {
	return fmt.Sprintf("Your Score %d (%.2f%%), %d answered of %d questions", s.Score, s.Percent(), s.TotalAnswered, s.CatalogSize)
}

// sendMessage sends a text message
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendCallbackResponse sends a response to a callback query
func (b *Bot) sendCallbackResponse(callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error sending callback response: %v", err)
	}
}
