package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awssweep/internal/command"
)

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
}

type Subcommand struct {
	ID      string
	Short   string
	Usage   string
	Flags   []Flag
	IDUpper string
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

const mdTemplate = `# awssweep {{ .ID }}

{{ .Short }}

## Usage

    {{ .Usage }}

## Flags

| Flag | Description | Default |
| ---- | ----------- | ------- |
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} |
{{- end }}

_Generated {{ .Date }} for {{ .Version }}._
`

const tldrTemplate = `# awssweep {{ .ID }}

> {{ .Short }}.

- Show the usage:

` + "`awssweep {{ .ID }} --help`" + `
{{ range .Flags }}
- {{ .Description }}:

` + "`awssweep {{ $.ID }} {{ .Syntax }}`" + `
{{ end }}`

const manTemplate = `.TH AWSSWEEP-{{ .IDUpper }} 1 "{{ .Date }}" "{{ .Version }}"
.SH NAME
awssweep-{{ .ID }} \- {{ .Short }}
.SH SYNOPSIS
{{ .Usage }}
.SH OPTIONS
{{- range .Flags }}
.TP
.B {{ .Syntax }}
{{ .Description }}
{{- end }}
`

func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	// Build the live command tree so the pages cannot drift from the flags.
	app, err := command.InitApp(context.Background(), []string{"awssweep"})
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: mdTemplate, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: manTemplate, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "awssweep-", Suffix: ".1"},
		{Template: tldrTemplate, Folder: filepath.Join(docs, "tldr"), Prefix: "awssweep-", Suffix: ".md"},
	}

	for _, cmd := range app.Commands {
		sub := subcommand(cmd)

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0755); err != nil {
				panic(err)
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)
			tmpl := template.Must(template.New(sub.ID).Parse(t.Template))

			file, err := os.Create(path)
			if err != nil {
				panic(err)
			}
			if err := tmpl.Execute(file, sub); err != nil {
				panic(err)
			}
			file.Close()
		}
	}
}

func subcommand(cmd *cli.Command) Subcommand {
	sub := Subcommand{
		ID:      cmd.Name,
		Short:   cmd.Usage,
		Usage:   cmd.UsageText,
		IDUpper: strings.ToUpper(cmd.Name),
		Date:    time.Now().Format("January 2, 2006"),
		Version: getVersion(),
	}

	for _, f := range cmd.Flags {
		names := f.Names()
		syntax := make([]string, 0, len(names))
		for _, n := range names {
			if len(n) == 1 {
				syntax = append(syntax, "-"+n)
			} else {
				syntax = append(syntax, "--"+n)
			}
		}

		flag := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			flag.Description = df.GetUsage()
			flag.Default = df.GetValue()
		}
		sub.Flags = append(sub.Flags, flag)
	}

	sort.Slice(sub.Flags, func(i, j int) bool {
		return sub.Flags[i].ID < sub.Flags[j].ID
	})
	return sub
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
