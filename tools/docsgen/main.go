// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/command"
)

type Subcommand struct {
	ID          string
	Short       string
	Usage       string
	Flags       []Flag
	Subcommands []Subcommand
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

const mdTemplate = `# nodectl {{ .ID }}

{{ .Short }}

## Usage

    {{ .Usage }}
{{ if .Flags }}
## Flags

| Flag | Description | Default |
|---|---|---|
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} |
{{- end }}
{{ end }}
{{- range .Subcommands }}
## {{ .ID }}

{{ .Short }}

    {{ .Usage }}
{{ range .Flags }}
- ` + "`{{ .Syntax }}`" + ` {{ .Description }}
{{- end }}
{{ end }}
---
Generated {{ .Date }} for version {{ .Version }}.
`

const manTemplate = `.TH NODECTL-{{ .IDUpper }} 1 "{{ .Date }}" "{{ .Version }}" "nodectl manual"
.SH NAME
nodectl-{{ .ID }} \- {{ .Short }}
.SH SYNOPSIS
{{ .Usage }}
{{- if .Flags }}
.SH OPTIONS
{{- range .Flags }}
.TP
.B {{ .Syntax }}
{{ .Description }}{{ if .Default }} (default {{ .Default }}){{ end }}
{{- end }}
{{- end }}
`

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	app, err := command.InitApp(context.Background(), []string{"nodectl"})
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: mdTemplate, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: manTemplate, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "nodectl-", Suffix: ".1"},
	}

	for _, cmd := range app.Commands {
		metadata := TemplateData{
			Subcommand: describe(cmd),
			Date:       time.Now().Format("January 2, 2006"),
			Version:    getVersion(),
			IDUpper:    strings.ToUpper(cmd.Name),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0755); err != nil {
				panic(err)
			}

			path := filepath.Join(t.Folder, t.Prefix+cmd.Name+t.Suffix)
			fmt.Println("Generating", path)
			file, err := os.Create(path)
			if err != nil {
				panic(err)
			}
			if err := render(file, t.Template, metadata); err != nil {
				panic(err)
			}
			file.Close()
		}
	}
}

// render executes the named template text into w.
func render(w io.Writer, text string, data TemplateData) error {
	tmpl, err := template.New(data.ID).Parse(text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// describe converts a command, and its subcommands, into template data.
func describe(cmd *cli.Command) Subcommand {
	sub := Subcommand{
		ID:    cmd.Name,
		Short: cmd.Usage,
		Usage: cmd.UsageText,
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
	for _, c := range cmd.Commands {
		sub.Subcommands = append(sub.Subcommands, describe(c))
	}
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
