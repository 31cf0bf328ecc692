// Package discord connects the adjudicator to a Discord table: private
// wakes and prompts go out as DMs, public events as channel messages, and
// player answers come back through message and component interactions.
package discord

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot wraps the Discord session shared by the notifier and the input
// collector
type Bot struct {
	session        *discordgo.Session
	tableChannelID string
	logger         *zap.Logger

	mu           sync.Mutex
	pendingText  map[string]chan string // DM channel ID -> reply
	pendingVotes map[string]chan bool   // nonce -> vote
	dmChannels   map[string]string      // user ID -> DM channel ID
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// TableChannelID is the channel public announcements go to
	TableChannelID string

	Logger *zap.Logger
}

// New creates the bot and registers its interaction handlers. The session
// is not opened until Start.
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}
	if cfg.TableChannelID == "" {
		return nil, errors.New("table channel id cannot be empty")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	b := &Bot{
		session:        session,
		tableChannelID: cfg.TableChannelID,
		logger:         cfg.Logger,
		pendingText:    make(map[string]chan string),
		pendingVotes:   make(map[string]chan bool),
		dmChannels:     make(map[string]string),
	}

	session.AddHandler(b.handleMessage)
	session.AddHandler(b.handleInteraction)
	session.Identify.Intents |= discordgo.IntentsDirectMessages

	return b, nil
}

// Start opens the websocket connection to Discord
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	b.logger.Info("discord session open")
	return nil
}

// Stop closes the Discord connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

// dmChannel resolves and caches the DM channel for a user
func (b *Bot) dmChannel(userID string) (string, error) {
	b.mu.Lock()
	if id, ok := b.dmChannels[userID]; ok {
		b.mu.Unlock()
		return id, nil
	}
	b.mu.Unlock()

	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel for %s: %w", userID, err)
	}

	b.mu.Lock()
	b.dmChannels[userID] = ch.ID
	b.mu.Unlock()
	return ch.ID, nil
}

// awaitText registers a one-shot listener for the next message in a DM
// channel. The returned cancel func must be called if the caller gives up.
func (b *Bot) awaitText(channelID string) (<-chan string, func()) {
	ch := make(chan string, 1)
	b.mu.Lock()
	b.pendingText[channelID] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.pendingText, channelID)
		b.mu.Unlock()
	}
	return ch, cancel
}

// awaitVote registers a one-shot listener for a button press carrying the
// given nonce
func (b *Bot) awaitVote(nonce string) (<-chan bool, func()) {
	ch := make(chan bool, 1)
	b.mu.Lock()
	b.pendingVotes[nonce] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.pendingVotes, nonce)
		b.mu.Unlock()
	}
	return ch, cancel
}

// handleMessage resolves pending text prompts from DM replies
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	b.mu.Lock()
	ch, ok := b.pendingText[m.ChannelID]
	if ok {
		delete(b.pendingText, m.ChannelID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	ch <- strings.TrimSpace(m.Content)
}

// handleInteraction resolves pending vote prompts from button presses
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	verdict, nonce, ok := parseVoteID(customID)
	if !ok {
		return
	}

	b.mu.Lock()
	ch, pending := b.pendingVotes[nonce]
	if pending {
		delete(b.pendingVotes, nonce)
	}
	b.mu.Unlock()

	ack := "Your hand stays down."
	if verdict {
		ack = "Your hand is raised."
	}
	if !pending {
		ack = "This vote has already closed."
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: ack,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		b.logger.Warn("failed to acknowledge vote interaction", zap.Error(err))
	}

	if pending {
		ch <- verdict
	}
}

const (
	voteYesPrefix = "vote_yes:"
	voteNoPrefix  = "vote_no:"
)

func parseVoteID(customID string) (verdict bool, nonce string, ok bool) {
	switch {
	case strings.HasPrefix(customID, voteYesPrefix):
		return true, strings.TrimPrefix(customID, voteYesPrefix), true
	case strings.HasPrefix(customID, voteNoPrefix):
		return false, strings.TrimPrefix(customID, voteNoPrefix), true
	default:
		return false, "", false
	}
}
