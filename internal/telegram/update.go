// Package telegram parses bot webhook updates. Only the fields needed to
// trigger URL ingestion are modelled.
package telegram

import (
	"crypto/subtle"
	"regexp"
	"strconv"
	"strings"
)

const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message,omitempty"`
	EditedMessage *Message `json:"edited_message,omitempty"`
	ChannelPost   *Message `json:"channel_post,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// EffectiveMessage returns the first message carried by the update.
func (u Update) EffectiveMessage() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	default:
		return u.ChannelPost
	}
}

// Body is the text, or the caption for media messages.
func (m *Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ExtractURL returns the first http(s) URL in text, without trailing
// punctuation.
func ExtractURL(text string) (string, bool) {
	m := urlPattern.FindString(text)
	if m == "" {
		return "", false
	}
	m = strings.TrimRight(m, ".,;:!?)]}")
	return m, true
}

// Authorizer checks the webhook secret and the sender. An empty user set
// allows every sender; an empty secret disables the secret check.
type Authorizer struct {
	secret string
	users  map[int64]struct{}
}

func NewAuthorizer(secret string, userIDs ...int64) *Authorizer {
	users := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		users[id] = struct{}{}
	}
	return &Authorizer{secret: secret, users: users}
}

func (a *Authorizer) ValidSecret(got string) bool {
	if a.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(a.secret), []byte(got)) == 1
}

func (a *Authorizer) Allowed(m *Message) bool {
	if len(a.users) == 0 {
		return true
	}
	if m == nil || m.From == nil {
		return false
	}
	_, ok := a.users[m.From.ID]
	return ok
}

// ParseUserIDs reads a comma separated id list, skipping blanks.
func ParseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
