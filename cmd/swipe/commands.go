package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

type commandKind int

const (
	cmdDrag commandKind = iota
	cmdLike
	cmdDislike
	cmdFilter
	cmdShow
	cmdSaved
	cmdHelp
	cmdQuit
)

// command is one parsed line of user input.
type command struct {
	kind    commandKind
	dx, dy  float64
	filters types.Filters
	id      string
}

const helpText = `commands:
  drag <dx> [dy]      drag the front card and release it
  like | l            swipe the front card right
  dislike | d         swipe the front card left
  filter [k=v ...]    replace the filters (mealType, ingredients, budget, people)
  show                print the front card
  saved [id]          list liked recipes, or print one in full
  help                show this help
  quit                exit`

// parseCommand parses one input line. Blank lines yield ok=false.
func parseCommand(line string) (cmd command, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "drag":
		if len(fields) < 2 || len(fields) > 3 {
			return command{}, true, fmt.Errorf("usage: drag <dx> [dy]")
		}
		cmd.kind = cmdDrag
		if cmd.dx, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return command{}, true, fmt.Errorf("invalid dx %q", fields[1])
		}
		if len(fields) == 3 {
			if cmd.dy, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return command{}, true, fmt.Errorf("invalid dy %q", fields[2])
			}
		}
	case "like", "l", "right":
		cmd.kind = cmdLike
	case "dislike", "d", "left":
		cmd.kind = cmdDislike
	case "filter", "filters":
		cmd.kind = cmdFilter
		cmd.filters, err = parseFilters(fields[1:])
		if err != nil {
			return command{}, true, err
		}
	case "show":
		cmd.kind = cmdShow
	case "saved":
		if len(fields) > 2 {
			return command{}, true, fmt.Errorf("usage: saved [id]")
		}
		cmd.kind = cmdSaved
		if len(fields) == 2 {
			cmd.id = fields[1]
		}
	case "help", "?":
		cmd.kind = cmdHelp
	case "quit", "exit", "q":
		cmd.kind = cmdQuit
	default:
		return command{}, true, fmt.Errorf("unknown command %q, type help", fields[0])
	}
	return cmd, true, nil
}

// parseFilters reads key=value pairs. Underscores in values stand for
// spaces, so "ingredients=rice,black_beans" works without quoting.
func parseFilters(args []string) (types.Filters, error) {
	filters := types.Filters{}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", arg)
		}
		value = strings.ReplaceAll(value, "_", " ")
		if value == "" {
			delete(filters, key)
			continue
		}
		filters[key] = value
	}
	return filters, nil
}
