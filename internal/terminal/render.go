// Package terminal draws player snapshots with pterm.
//
// Every function returns the rendered string instead of printing so the
// play loop decides when to draw and tests can inspect the output.
package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"blockquest/internal/app"
	"blockquest/internal/domain"
	"github.com/pterm/pterm"
)

// ChainRows is how many of the newest blocks the chain table shows.
const ChainRows = 5

// ProfilePanel renders the miner's stats in a titled box.
func ProfilePanel(p domain.UserProfile) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	body := pterm.Sprintfln("Level %d  %s", p.Level, expBar(p.Exp, p.ExpToNextLevel, 20))
	body += pterm.Sprintfln("EXP: %d / %d", p.Exp, p.ExpToNextLevel)
	body += pterm.Sprintfln("Hash rate: %s", pterm.LightCyan(strconv.Itoa(p.HashRate)+" MH/s"))
	body += pterm.Sprintf("Blocks mined: %d", p.BlocksMined)
	return pbox.WithTitle(pterm.LightYellow("|" + p.Name + "|")).WithTitleTopLeft().Sprint(body)
}

func expBar(exp, next, width int) string {
	if next <= 0 {
		next = 1
	}
	filled := exp * width / next
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// ChainTable renders the newest blocks, oldest first.
func ChainTable(blocks []domain.Block) (string, error) {
	if len(blocks) == 0 {
		return pterm.Gray("Chain is empty. Answer a question to mine the genesis block."), nil
	}
	start := 0
	if len(blocks) > ChainRows {
		start = len(blocks) - ChainRows
	}
	data := pterm.TableData{{"#", "Data", "Prev", "Hash", "Difficulty"}}
	for _, b := range blocks[start:] {
		data = append(data, []string{
			strconv.Itoa(b.Index),
			b.Data,
			shortHash(b.PrevHash),
			shortHash(b.Hash),
			string(b.Difficulty),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func shortHash(h string) string {
	if len(h) <= 10 {
		return h
	}
	return h[:10] + "..."
}

// LeaderboardTable renders the network leaderboard.
func LeaderboardTable(entries []domain.LeaderboardEntry) (string, error) {
	data := pterm.TableData{{"Rank", "Node", "Blocks", "Hash rate"}}
	for _, e := range entries {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			e.Name,
			strconv.Itoa(e.BlocksMined),
			e.HashRate,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// BadgeList marks each catalog badge as unlocked or locked.
func BadgeList(catalog []domain.Badge, unlocked []string) string {
	has := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		has[id] = true
	}
	var sb strings.Builder
	for _, b := range catalog {
		if has[b.ID] {
			sb.WriteString(pterm.Sprintfln("%s %s (%s)", pterm.LightGreen("[x]"), b.Name, b.Rarity))
		} else {
			sb.WriteString(pterm.Sprintfln("%s %s - %s", pterm.Gray("[ ]"), b.Name, b.Description))
		}
	}
	return sb.String()
}

// QuestionPanel renders the quiz view for its current state.
func QuestionPanel(view app.QuizView) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	switch view.State {
	case app.StateIdle:
		return pbox.WithTitle(pterm.LightYellow("|MINING RIG|")).WithTitleTopCenter().Sprint("Select a topic to start mining.")
	case app.StateLoading:
		return pbox.WithTitle(pterm.LightYellow("|MINING RIG|")).WithTitleTopCenter().Sprintf("Fetching a %s question on %s ...", view.Difficulty, view.Topic)
	}
	if view.Question == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(pterm.Sprintfln("%s", view.Question.Question))
	for i, opt := range view.Question.Options {
		line := fmt.Sprintf("%c) %s", 'A'+i, opt)
		switch {
		case view.CorrectIndex != nil && i == *view.CorrectIndex:
			line = pterm.LightGreen(line)
		case view.Selected != nil && i == *view.Selected:
			line = pterm.LightRed(line)
		}
		sb.WriteString("\n" + line)
	}
	if view.State == app.StateAnswered {
		verdict := pterm.LightRed("Block rejected.")
		if view.Outcome == app.OutcomeCorrect {
			verdict = pterm.LightGreen("Block validated!")
		}
		sb.WriteString("\n\n" + verdict + "\n" + view.Explanation)
	}
	title := pterm.LightYellow("|" + strings.ToUpper(view.Topic) + "|")
	return pbox.WithTitle(title).WithTitleTopCenter().Sprint(sb.String())
}

// Screen lays out the whole dashboard for a snapshot.
func Screen(snap app.Snapshot, catalog []domain.Badge) (string, error) {
	chain, err := ChainTable(snap.Chain)
	if err != nil {
		return "", err
	}
	return pterm.DefaultPanel.WithPanels(pterm.Panels{
		{{Data: ProfilePanel(snap.Profile)}, {Data: BadgeList(catalog, snap.Profile.Badges)}},
		{{Data: QuestionPanel(snap.Quiz)}},
		{{Data: chain}},
	}).Srender()
}
