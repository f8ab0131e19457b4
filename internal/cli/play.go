package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blockquest/internal/app"
	"blockquest/internal/config"
	"blockquest/internal/domain"
	"blockquest/internal/logger"
	"blockquest/internal/terminal"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	menuLeaderboard = "Network leaderboard"
	menuVerify      = "Verify chain"
	menuQuit        = "Quit"
)

var errSessionClosed = errors.New("session closed")

// NewPlayCmd runs one mining session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Mine blocks interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath)
		},
	}
}

func runPlay(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// log lines would tear through the interactive widgets
	service, d, err := buildService(ctx, cfg, logger.NewNop())
	if err != nil {
		return err
	}
	defer d.Close()

	pterm.DefaultHeader.WithFullWidth().Println("BLOCKQUEST")
	name, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Miner name").
		WithDefaultValue(cfg.Profile.Name).
		Show()
	if err != nil {
		return err
	}
	pterm.Println()

	player := service.NewPlayer(strings.TrimSpace(name), cfg.Profile.AvatarID)
	defer service.Leave(player.ID())

	updates, cancel, err := service.Subscribe(player.ID())
	if err != nil {
		return err
	}
	defer cancel()
	snap := <-updates

	topics := service.Topics()
	menu := make([]string, 0, len(topics)+3)
	for _, t := range topics {
		menu = append(menu, topicLabel(t))
	}
	menu = append(menu, menuLeaderboard, menuVerify, menuQuit)

	for {
		screen, err := terminal.Screen(snap, service.Badges())
		if err != nil {
			return err
		}
		pterm.Print(screen)

		choice, err := pterm.DefaultInteractiveSelect.WithDefaultText("What next?").WithOptions(menu).Show()
		if err != nil {
			return err
		}

		switch choice {
		case menuQuit:
			pterm.Info.Printfln("Chain length %d, level %d. See you on the network.", len(snap.Chain), snap.Profile.Level)
			return nil
		case menuLeaderboard:
			entries, err := service.Leaderboard(ctx)
			if err != nil {
				pterm.Error.Println(err.Error())
				continue
			}
			table, err := terminal.LeaderboardTable(entries)
			if err != nil {
				return err
			}
			pterm.Println(table)
		case menuVerify:
			if err := player.Ledger().Verify(); err != nil {
				pterm.Error.Println(err.Error())
			} else {
				pterm.Success.Printfln("All %d blocks link up.", player.Ledger().Length())
			}
		default:
			topic, ok := topicFromLabel(topics, choice)
			if !ok {
				continue
			}
			snap, err = playRound(ctx, service, player.ID(), topic, updates, snap)
			if errors.Is(err, errSessionClosed) {
				return nil
			}
			if err != nil {
				pterm.Error.Println(err.Error())
			}
		}
	}
}

// playRound mines one topic until a correct answer or the player gives up.
func playRound(ctx context.Context, service *app.MiningService, playerID string, topic domain.Topic, updates <-chan app.Snapshot, snap app.Snapshot) (app.Snapshot, error) {
	request := func() error { return service.SelectTopic(ctx, playerID, topic.ID) }
	for {
		spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Fetching a block template ...")
		next, err := requestQuestion(ctx, service, playerID, updates, request)
		_ = spinner.Stop()
		if err != nil {
			return snap, err
		}
		snap = next

		pterm.Println(terminal.QuestionPanel(snap.Quiz))
		options := make([]string, len(snap.Quiz.Question.Options))
		for i, opt := range snap.Quiz.Question.Options {
			options[i] = fmt.Sprintf("%c) %s", 'A'+i, opt)
		}
		picked, err := pterm.DefaultInteractiveSelect.WithDefaultText("Your answer").WithOptions(options).Show()
		if err != nil {
			return snap, err
		}
		idx := indexOf(options, picked)

		before := len(snap.Chain)
		res, err := service.SelectOption(playerID, idx)
		if err != nil {
			return snap, err
		}

		if res.Correct {
			pterm.Success.Println("Block validated! " + res.Explanation)
			spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Mining block ...")
			snap, err = waitFor(ctx, updates, snap, func(s app.Snapshot) bool {
				return len(s.Chain) > before
			})
			_ = spinner.Stop()
			if err != nil {
				return snap, err
			}
			announce(snap, service.Badges())
			return resetQuiz(ctx, service, playerID, updates, snap)
		}

		pterm.Error.Printfln("Block rejected. The answer was %c. %s", 'A'+res.CorrectIndex, res.Explanation)
		retry, err := pterm.DefaultInteractiveConfirm.WithDefaultText("Retry with an easier question?").WithDefaultValue(true).Show()
		if err != nil {
			if _, resetErr := resetQuiz(ctx, service, playerID, updates, snap); resetErr != nil {
				return snap, resetErr
			}
			return snap, err
		}
		if !retry {
			return resetQuiz(ctx, service, playerID, updates, snap)
		}
		request = func() error { return service.Retry(ctx, playerID) }
	}
}

// requestQuestion issues request (a topic selection or a retry) and waits for
// the question it produces. Snapshots queued before the request are discarded
// so an earlier question is never mistaken for the new one.
func requestQuestion(ctx context.Context, service *app.MiningService, playerID string, updates <-chan app.Snapshot, request func() error) (app.Snapshot, error) {
	player, err := service.Player(playerID)
	if err != nil {
		return app.Snapshot{}, err
	}
	drain(updates)
	if err := request(); err != nil {
		return player.Snapshot(), err
	}
	return waitFor(ctx, updates, player.Snapshot(), func(s app.Snapshot) bool {
		return s.Quiz.State == app.StatePresenting
	})
}

func resetQuiz(ctx context.Context, service *app.MiningService, playerID string, updates <-chan app.Snapshot, snap app.Snapshot) (app.Snapshot, error) {
	player, err := service.Player(playerID)
	if err != nil {
		return snap, err
	}
	if err := service.Abort(playerID); err != nil {
		return snap, err
	}
	drain(updates)
	return player.Snapshot(), nil
}

func drain(updates <-chan app.Snapshot) {
	for {
		select {
		case _, open := <-updates:
			if !open {
				return
			}
		default:
			return
		}
	}
}

func announce(snap app.Snapshot, catalog []domain.Badge) {
	b := snap.Chain[len(snap.Chain)-1]
	pterm.Info.Printfln("Block #%d mined: %s", b.Index, b.Hash)
	for _, id := range snap.Unlocked {
		for _, badge := range catalog {
			if badge.ID == id {
				pterm.Success.Printfln("Badge unlocked: %s %s", badge.Icon, badge.Name)
			}
		}
	}
}

// waitFor drains updates until one satisfies ok. The latest snapshot seen is returned either way.
func waitFor(ctx context.Context, updates <-chan app.Snapshot, last app.Snapshot, ok func(app.Snapshot) bool) (app.Snapshot, error) {
	if ok(last) {
		return last, nil
	}
	for {
		select {
		case snap, open := <-updates:
			if !open {
				return last, errSessionClosed
			}
			last = snap
			if ok(snap) {
				return snap, nil
			}
		case <-ctx.Done():
			return last, ctx.Err()
		}
	}
}

func topicLabel(t domain.Topic) string {
	return fmt.Sprintf("Mine %s (%s)", t.Label, t.Difficulty)
}

func topicFromLabel(topics []domain.Topic, label string) (domain.Topic, bool) {
	for _, t := range topics {
		if topicLabel(t) == label {
			return t, true
		}
	}
	return domain.Topic{}, false
}

func indexOf(options []string, picked string) int {
	for i, o := range options {
		if o == picked {
			return i
		}
	}
	return -1
}
