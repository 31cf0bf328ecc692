package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ravenshollow/grimoire/internal/models"
	"github.com/ravenshollow/grimoire/internal/services/night"
)

// Notifier delivers adjudicator output over Discord: private info as DMs,
// public events as embeds in the table channel
type Notifier struct {
	bot *Bot
}

// NotifierConfig holds the configuration for the notifier
type NotifierConfig struct {
	Bot *Bot
}

// NewNotifier creates a new Discord notifier
func NewNotifier(cfg *NotifierConfig) (*Notifier, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Bot == nil {
		return nil, errors.New("bot cannot be nil")
	}
	return &Notifier{bot: cfg.Bot}, nil
}

var _ night.Notifier = (*Notifier)(nil)

// DeliverPrivateInfo sends a piece of information to its recipient's DM
func (n *Notifier) DeliverPrivateInfo(ctx context.Context, info *night.PrivateInfo) error {
	channelID, err := n.bot.dmChannel(info.PlayerID)
	if err != nil {
		return err
	}
	if _, err := n.bot.session.ChannelMessageSend(channelID, info.Message); err != nil {
		return fmt.Errorf("failed to deliver private info to %s: %w", info.PlayerID, err)
	}
	n.bot.logger.Debug("private info delivered",
		zap.String("game_id", info.GameID),
		zap.String("player_id", info.PlayerID),
	)
	return nil
}

// AnnouncePublic posts a public event to the table channel
func (n *Notifier) AnnouncePublic(ctx context.Context, event *models.PublicEvent) error {
	embed := &discordgo.MessageEmbed{
		Title:       announceTitle(event.Type),
		Description: event.Message,
		Color:       announceColor(event.Type),
	}
	if _, err := n.bot.session.ChannelMessageSendEmbed(n.bot.tableChannelID, embed); err != nil {
		return fmt.Errorf("failed to announce event %s: %w", event.ID, err)
	}
	return nil
}

func announceTitle(t models.EventType) string {
	switch t {
	case models.EventDeath:
		return "A Death"
	case models.EventExecution:
		return "Execution"
	case models.EventNomination:
		return "Nomination"
	case models.EventVoteResult:
		return "The Vote"
	case models.EventGameEnd:
		return "The Game Ends"
	default:
		return "The Storyteller Speaks"
	}
}

func announceColor(t models.EventType) int {
	switch t {
	case models.EventDeath, models.EventExecution:
		return 0xcc0000
	case models.EventGameEnd:
		return 0xffd700
	default:
		return 0x4b0082
	}
}
