// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/meta"
)

const bashCompletionScript = `# bash completion for nodectl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_nodectl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "ls apply diff browse filter completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local kinds="machine controller pod"
    local source="--region --profile --token --cache --remote-filter --timeout"
    local common="--attrs -a --color -c --filter -f --local -l --output -o --padding --selected --sort -s --tags --titles -t $source"

    # The kind is the first positional after the subcommand.
    if [[ ${COMP_CWORD} -eq 2 && "$cur" != -* && "$cmd" != "filter" && "$cmd" != "completion" ]]; then
        COMPREPLY=( $(compgen -W "$kinds" -- "$cur") )
        return 0
    fi

    case "$cmd" in
        ls|apply)
            local opts="$common --schema --query -q"
            ;;
        diff)
            local opts="--color -c --exit-code --filter -f --ignore --selected --tags $source"
            ;;
        browse)
            local opts="--attrs -a --filter -f --selected --tags $source"
            ;;
        filter)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "parse string qs from-qs toggle active" -- "$cur") )
                return 0
            fi
            local opts="--kind -k --exact --exist --exit-code --output -o"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi
    if [[ "$prev" == "--kind" || "$prev" == "-k" ]]; then
        COMPREPLY=( $(compgen -W "$kinds" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, we're on a source positional, complete files
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _nodectl nodectl
`

const zshCompletionScript = `#compdef nodectl

_nodectl() {
  local -a cmds
  cmds=(
    'ls:list records'
    'apply:apply a notification stream to records'
    'diff:compare two snapshots of records'
    'browse:search records interactively'
    'filter:parse, convert and edit search strings'
    'completion:generate shell completion script'
  )

  local -a source
  source=(
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  '--token[bearer token]:token'
  '--cache[cache max age]:duration'
  '--remote-filter[send the filter to http(s) sources]'
  '--timeout[request timeout]:duration'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[search terms]:filter'
  '(-l --local)'{-l,--local}'[local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[column padding]:padding'
  '--selected[selected primary keys]:ids'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '--tags[tag records source]:source:_files'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'nodectl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    ls)
      _arguments -C \
        $common $source \
        '--schema[dump schema]' \
        '(-q --query)'{-q,--query}'[print the query string]' \
        '1:kind:(machine controller pod)' \
        '2::source:_files'
      ;;
    apply)
      _arguments -C \
        $common $source \
        '--schema[dump schema]' \
        '(-q --query)'{-q,--query}'[print the query string]' \
        '1:kind:(machine controller pod)' \
        '2:source:_files' \
        '3:notifications:_files'
      ;;
    diff)
      _arguments -C \
        $source \
        '(-c --color)'{-c,--color}'[enable colored diff]' \
        '--exit-code[exit 1 when different]' \
        '(-f --filter)'{-f,--filter}'[search terms]:filter' \
        '--ignore[ignored attributes]:attrs' \
        '--selected[selected primary keys]:ids' \
        '--tags[tag records source]:source:_files' \
        '1:kind:(machine controller pod)' \
        '2:old:_files' \
        '3:new:_files'
      ;;
    browse)
      _arguments -C \
        $source \
        '(-a --attrs)'{-a,--attrs}'[attributes to show]:attrs' \
        '(-f --filter)'{-f,--filter}'[initial search terms]:filter' \
        '--selected[selected primary keys]:ids' \
        '--tags[tag records source]:source:_files' \
        '1:kind:(machine controller pod)' \
        '2::source:_files'
      ;;
    filter)
      _arguments -C \
        '(-k --kind)'{-k,--kind}'[record kind]:kind:(machine controller pod)' \
        '--exact[exact value]' \
        '--exist[force presence]:exist:(true false)' \
        '--exit-code[exit 1 when not set]' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '1:subcommand:(parse string qs from-qs toggle active)' \
        '*:argument'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:file:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _nodectl nodectl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(cmd.Root().ErrWriter, "usage: nodectl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "nodectl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
