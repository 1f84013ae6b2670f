// Package chatbot answers referred visitors with canned replies picked by
// keyword rules.
package chatbot

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/metrics"
	"github.com/jordanlanch/referralhub/pkg/models"
)

const (
	welcomeText  = "👋 Hi there! I'm here to help you with this referral. What would you like to know?"
	fallbackText = "I'm not sure I understand. Could you rephrase your question? You can ask about how the referral works, what rewards you can earn, or what tasks you need to complete."

	// IntentFallback labels replies where no rule matched
	IntentFallback = "fallback"
)

// Rule pairs a predicate over the lowercased input with a reply template
type Rule struct {
	Intent string
	Match  func(input string) bool
	Reply  func(referralCode string) string
}

func containsAll(words ...string) func(string) bool {
	return func(input string) bool {
		for _, w := range words {
			if !strings.Contains(input, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) func(string) bool {
	return func(input string) bool {
		for _, w := range words {
			if strings.Contains(input, w) {
				return true
			}
		}
		return false
	}
}

func text(s string) func(string) string {
	return func(string) string { return s }
}

// DefaultRules is evaluated top to bottom; the first match wins. Matching is
// by substring, so "hi" also fires inside longer words.
var DefaultRules = []Rule{
	{
		Intent: "how_it_works",
		Match:  containsAll("how", "work"),
		Reply: func(code string) string {
			msg := "This is a referral program where you can earn rewards for completing certain tasks."
			if code != "" {
				msg += fmt.Sprintf(" Your referral code is %s.", code)
			}
			return msg
		},
	},
	{
		Intent: "rewards",
		Match:  containsAny("reward", "prize"),
		Reply:  text("You can earn special rewards by completing the tasks in this campaign. The rewards will be sent directly to you!"),
	},
	{
		Intent: "tasks",
		Match:  containsAny("task", "do"),
		Reply:  text("To earn your reward, simply complete the required task for this campaign, which is usually signing up or making a purchase."),
	},
	{
		Intent: "thanks",
		Match:  containsAny("thanks", "thank you"),
		Reply:  text("You're welcome! I'm happy to help. Is there anything else you'd like to know?"),
	},
	{
		Intent: "greeting",
		Match:  containsAny("hi", "hello"),
		Reply:  text("Hello! How can I help you with this referral today?"),
	},
}

// Responder picks replies from an ordered rule table
type Responder struct {
	rules   []Rule
	metrics *metrics.Metrics
}

// New creates a responder using DefaultRules
func New(m *metrics.Metrics) *Responder {
	return NewWithRules(DefaultRules, m)
}

func NewWithRules(rules []Rule, m *metrics.Metrics) *Responder {
	return &Responder{rules: rules, metrics: m}
}

// Welcome returns the opening bot message
func (r *Responder) Welcome() models.ChatMessage {
	return models.ChatMessage{Sender: models.SenderBot, Text: welcomeText}
}

// Respond returns the bot reply to input. The history is accepted for the
// client's convenience; replies depend on the latest input only. Blank input
// gets no reply.
func (r *Responder) Respond(history []models.ChatMessage, input, referralCode string) (models.ChatMessage, error) {
	if strings.TrimSpace(input) == "" {
		return models.ChatMessage{}, domain.NewValidationError("message is required")
	}

	// a Caser is stateful, so one per call
	folded := cases.Lower(language.Und).String(input)

	intent, reply := r.match(folded, referralCode)
	r.metrics.RecordChatbotReply(intent)

	return models.ChatMessage{Sender: models.SenderBot, Text: reply}, nil
}

func (r *Responder) match(input, referralCode string) (string, string) {
	for _, rule := range r.rules {
		if rule.Match(input) {
			return rule.Intent, rule.Reply(referralCode)
		}
	}
	return IntentFallback, fallbackText
}
