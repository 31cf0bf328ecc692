package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ravenshollow/grimoire/internal/common/uuid"
	"github.com/ravenshollow/grimoire/internal/services/night"
)

// Input collects player choices over Discord DMs. Target prompts are
// answered with a plain text reply; votes with a pair of buttons. Each
// call blocks until the player answers or the context expires.
type Input struct {
	bot  *Bot
	uuid uuid.UUID
}

// InputConfig holds the configuration for the input collector
type InputConfig struct {
	Bot  *Bot
	UUID uuid.UUID
}

// NewInput creates a new Discord input collector
func NewInput(cfg *InputConfig) (*Input, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Bot == nil {
		return nil, errors.New("bot cannot be nil")
	}
	if cfg.UUID == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}
	return &Input{bot: cfg.Bot, uuid: cfg.UUID}, nil
}

var _ night.PlayerInput = (*Input)(nil)

// RequestTargets prompts a player to pick ability targets by replying with
// player names separated by commas
func (in *Input) RequestTargets(ctx context.Context, input *night.RequestTargetsInput) (*night.RequestTargetsOutput, error) {
	channelID, err := in.bot.dmChannel(input.PlayerID)
	if err != nil {
		return nil, err
	}

	noun := "target"
	if input.Count > 1 {
		noun = fmt.Sprintf("%d targets", input.Count)
	}
	prompt := fmt.Sprintf("You wake as the **%s**. Reply with your %s, separated by commas.", input.Character, noun)

	reply, cancel := in.bot.awaitText(channelID)
	defer cancel()

	if _, err := in.bot.session.ChannelMessageSend(channelID, prompt); err != nil {
		return nil, fmt.Errorf("failed to prompt %s: %w", input.PlayerID, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case text := <-reply:
		var targets []string
		for _, part := range strings.Split(text, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				targets = append(targets, trimmed)
			}
		}
		return &night.RequestTargetsOutput{TargetIDs: targets}, nil
	}
}

// RequestVote prompts a player to vote on a nomination with a pair of
// buttons
func (in *Input) RequestVote(ctx context.Context, input *night.RequestVoteInput) (*night.RequestVoteOutput, error) {
	channelID, err := in.bot.dmChannel(input.VoterID)
	if err != nil {
		return nil, err
	}

	nonce := in.uuid.NewUUID()
	vote, cancel := in.bot.awaitVote(nonce)
	defer cancel()

	_, err = in.bot.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("**%s** is on the block. Do you raise your hand?", input.NomineeID),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Raise hand",
						Style:    discordgo.DangerButton,
						CustomID: voteYesPrefix + nonce,
					},
					discordgo.Button{
						Label:    "Keep it down",
						Style:    discordgo.SecondaryButton,
						CustomID: voteNoPrefix + nonce,
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prompt vote for %s: %w", input.VoterID, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case inFavor := <-vote:
		return &night.RequestVoteOutput{InFavor: inFavor}, nil
	}
}
