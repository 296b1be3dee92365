package main

import (
	"context"
	"strings"

	"github.com/desertthunder/aerial/internal/spotify"
	"github.com/urfave/cli/v3"
)

// toolSpec describes one leaf command as a function-calling tool definition.
type toolSpec struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  toolParams `json:"parameters"`
}

type toolParams struct {
	Type       string                  `json:"type"`
	Properties map[string]toolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

// toolProperty is a flag or positional argument. Index is set for positionals only, starting at 1.
type toolProperty struct {
	Index       *int     `json:"index,omitempty"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// toolEnums lists the accepted values of string parameters, keyed by "<function>.<property>".
var toolEnums = map[string][]string{
	"music_search.type":   searchTypeNames(),
	"music_top.range":     {"short", "medium", "long"},
	"music_top.format":    {"text", "csv", "json"},
	"music_shuffle.state": {"on", "off"},
}

func searchTypeNames() []string {
	names := make([]string, len(spotify.SearchTypes))
	for i, t := range spotify.SearchTypes {
		names[i] = string(t)
	}
	return names
}

// toolsSpecCommand prints every leaf command as a tool definition.
func toolsSpecCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tools-spec",
		Usage: "Print the command tree as JSON function-calling tool definitions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.ToolsSpec,
	}
}

// ToolsSpec writes the tool definitions for the whole command tree.
func (r *Runner) ToolsSpec(ctx context.Context, cmd *cli.Command) error {
	specs := collectTools(cmd.Root().Commands, "", cmd)
	return r.writeJSON(specs, cmd.Bool("pretty"))
}

// collectTools walks commands depth first. Groups contribute their name plus "_" to the prefix of
// their children. Help, hidden commands and skip are left out.
func collectTools(commands []*cli.Command, prefix string, skip *cli.Command) []toolSpec {
	specs := []toolSpec{}
	for _, c := range commands {
		if c == skip || c.Hidden || c.Name == "help" {
			continue
		}

		if len(c.Commands) > 0 {
			specs = append(specs, collectTools(c.Commands, prefix+c.Name+"_", skip)...)
			continue
		}
		specs = append(specs, newToolSpec(c, prefix+c.Name))
	}
	return specs
}

func newToolSpec(c *cli.Command, name string) toolSpec {
	description := c.Usage
	if description == "" {
		description = "No Description"
	}

	params := toolParams{
		Type:       "object",
		Properties: map[string]toolProperty{},
		Required:   []string{},
	}
	add := func(prop string, p toolProperty, required bool) {
		p.Enum = toolEnums[name+"."+prop]
		params.Properties[prop] = p
		if required {
			params.Required = append(params.Required, prop)
		}
	}

	for _, f := range c.Flags {
		names := f.Names()
		if len(names) == 0 || names[0] == "help" {
			continue
		}

		var p toolProperty
		if df, ok := f.(cli.DocGenerationFlag); ok {
			p.Description = df.GetUsage()
		}
		rf, ok := f.(cli.RequiredFlag)
		add(names[0], p, ok && rf.IsRequired())
	}

	index := 0
	for _, a := range c.Arguments {
		sa, ok := a.(*cli.StringArg)
		if !ok {
			continue
		}
		index++
		add(sa.Name, toolProperty{Index: ptr(index), Description: sa.UsageText}, true)
	}

	if prop, desc, ok := parseArgsUsage(c.ArgsUsage); ok {
		index++
		add(prop, toolProperty{Index: ptr(index), Description: desc}, true)
	}

	return toolSpec{
		Type: "function",
		Function: toolFunction{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

// parseArgsUsage turns "<query>" or "<track-id>..." into a positional property name.
func parseArgsUsage(usage string) (name, description string, ok bool) {
	usage = strings.TrimSpace(usage)
	repeated := strings.HasSuffix(usage, "...")
	inner := strings.TrimSuffix(usage, "...")
	if !strings.HasPrefix(inner, "<") || !strings.HasSuffix(inner, ">") {
		return "", "", false
	}

	name = strings.ReplaceAll(strings.Trim(inner, "<>"), "-", "_")
	if name == "" {
		return "", "", false
	}
	if repeated {
		return name, "One or more values separated by spaces", true
	}
	return name, "", true
}

func ptr[T any](v T) *T { return &v }
