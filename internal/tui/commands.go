package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/types"
)

// action runs on the loop goroutine and returns the text to log
type action func(*game.Session) (string, error)

var errQuit = errors.New("quit")

const helpText = "new | load N | save N [note] | go X Z | step DX DZ | e | open ID | answer TEXT | hint | " +
	"use N | drop N | note TEXT | photos | saves | close | quit"

// parseCommand turns a typed line into an action. Slot numbers are 1-based.
func parseCommand(line string) (action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("type a command")
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch name {
	case "quit", "exit", "q":
		return nil, errQuit
	case "help", "?":
		return func(*game.Session) (string, error) { return helpText, nil }, nil
	case "new":
		return func(s *game.Session) (string, error) {
			s.NewGame()
			return "A new game begins.", nil
		}, nil
	case "load":
		slot, err := slotArg(args)
		if err != nil {
			return nil, err
		}
		return func(s *game.Session) (string, error) {
			if err := s.Load(slot); err != nil {
				return "", err
			}
			return fmt.Sprintf("Loaded slot %d.", slot+1), nil
		}, nil
	case "save":
		slot, err := slotArg(args)
		if err != nil {
			return nil, err
		}
		description := strings.Join(args[1:], " ")
		return func(s *game.Session) (string, error) {
			if err := s.Save(slot, description); err != nil {
				return "", err
			}
			return fmt.Sprintf("Saving to slot %d...", slot+1), nil
		}, nil
	case "go", "step":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: %s X Z", name)
		}
		x, errX := strconv.ParseFloat(args[0], 64)
		z, errZ := strconv.ParseFloat(args[1], 64)
		if errX != nil || errZ != nil {
			return nil, fmt.Errorf("coordinates must be numbers")
		}
		return func(s *game.Session) (string, error) {
			pos := s.Player().Position
			to := types.Vec3{X: x, Y: pos.Y, Z: z}
			if name == "step" {
				to.X, to.Z = pos.X+x, pos.Z+z
			}
			s.MoveTo(to)
			return fmt.Sprintf("You move to (%.1f, %.1f).", to.X, to.Z), nil
		}, nil
	case "e", "interact":
		return func(s *game.Session) (string, error) {
			target := s.Status().Target
			if target == "" {
				return "There is nothing here.", nil
			}
			if err := s.Interact(); err != nil {
				return "", err
			}
			return "You reach out to " + target + ".", nil
		}, nil
	case "open":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: open PUZZLE")
		}
		return func(s *game.Session) (string, error) {
			view, err := s.ActivatePuzzle(args[0])
			if err != nil {
				return "", err
			}
			return formatPuzzle(view), nil
		}, nil
	case "close":
		return func(s *game.Session) (string, error) {
			s.ClosePuzzle()
			return "You step back.", nil
		}, nil
	case "answer", "a":
		if rest == "" {
			return nil, fmt.Errorf("usage: answer TEXT")
		}
		return func(s *game.Session) (string, error) {
			res, err := answer(s, rest)
			if err != nil {
				return "", err
			}
			return formatResult(res), nil
		}, nil
	case "hint":
		return func(s *game.Session) (string, error) {
			id := currentPuzzle(s)
			if len(args) > 0 {
				id = args[0]
			}
			if id == "" {
				return "", fmt.Errorf("open a puzzle first")
			}
			return s.RequestHint(id)
		}, nil
	case "use", "drop":
		slot, err := slotArg(args)
		if err != nil {
			return nil, err
		}
		return func(s *game.Session) (string, error) {
			if name == "drop" {
				if err := s.DropItem(slot); err != nil {
					return "", err
				}
				return fmt.Sprintf("Dropped item %d.", slot+1), nil
			}
			if err := s.UseItem(slot); err != nil {
				return "", err
			}
			return fmt.Sprintf("Used item %d.", slot+1), nil
		}, nil
	case "note":
		return func(s *game.Session) (string, error) {
			if err := s.SetNote(rest); err != nil {
				return "", err
			}
			return "Noted.", nil
		}, nil
	case "photos":
		return func(s *game.Session) (string, error) {
			return formatGallery(s.Gallery()), nil
		}, nil
	case "saves":
		return func(s *game.Session) (string, error) {
			return formatSlots(s.Saves().Slots()), nil
		}, nil
	}
	return nil, fmt.Errorf("unknown command %q, try help", name)
}

func slotArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("a slot number is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("slot must be a positive number")
	}
	return n - 1, nil
}

// answer routes free text to the device or the open puzzle
func answer(s *game.Session, raw string) (game.Result, error) {
	st := s.Status()
	switch {
	case st.Device != "":
		return s.AnswerDeviceText(raw)
	case st.ActivePuzzle != "":
		return s.SubmitPuzzleText(st.ActivePuzzle, raw)
	}
	return game.Result{}, fmt.Errorf("there is nothing to answer")
}

func currentPuzzle(s *game.Session) string {
	st := s.Status()
	if st.Device != "" {
		return st.Device
	}
	return st.ActivePuzzle
}

func formatPuzzle(v game.PuzzleView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", v.Name, v.Description)
	if len(v.Options) > 0 {
		fmt.Fprintf(&b, "\nOptions: %s", strings.Join(v.Options, ", "))
	}
	if v.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s", v.Hint)
	}
	fmt.Fprintf(&b, "\nAttempts %d/%d", v.Attempts, v.MaxAttempts)
	return b.String()
}

func formatResult(res game.Result) string {
	switch res.Outcome {
	case game.OutcomeCorrect:
		return "It clicks into place."
	case game.OutcomeIncorrect:
		return fmt.Sprintf("Wrong. %d attempts left.", res.Remaining)
	case game.OutcomeLocked:
		return "It will not move any more."
	}
	return res.Status
}

func formatGallery(entries []game.GalleryEntry) string {
	var b strings.Builder
	for i, e := range entries {
		mark := " "
		if e.Unlocked {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s", mark, i+1, e.Name)
		if e.Date != "" {
			fmt.Fprintf(&b, " (%s)", e.Date)
		}
		if i < len(entries)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatSlots(slots []types.SlotSummary) string {
	var b strings.Builder
	for i, s := range slots {
		if s.Exists {
			fmt.Fprintf(&b, "%d. %s - %s", s.Slot+1, s.Description, s.Scene)
		} else {
			fmt.Fprintf(&b, "%d. (empty)", s.Slot+1)
		}
		if i < len(slots)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// errorText returns the player-facing part of err
func errorText(err error) string {
	var gameErr *game.Error
	if errors.As(err, &gameErr) {
		return gameErr.Message
	}
	return err.Error()
}
