// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awssweep/internal/meta"
)

const bashCompletionScript = `# bash completion for awssweep
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_awssweep()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "run plan completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--prefix -p --region -r --profile --credentials --services --retry-delay --rate --all-pages --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
        run)
            local opts="$common --yes -y"
            ;;
        plan)
            local opts="$common"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --services)
            COMPREPLY=( $(compgen -W "iam s3 cognito dynamodb lambda stepfunctions apigateway" -- "$cur") )
            return 0
            ;;
        --credentials)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _awssweep awssweep
`

const zshCompletionScript = `#compdef awssweep

_awssweep() {
  local -a cmds
  cmds=(
    'run:delete every resource carrying the prefix'
    'plan:list what run would delete'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-p --prefix)'{-p,--prefix}'[resource name prefix]:prefix'
  '(-r --region)'{-r,--region}'[AWS region]:region'
  '--profile[shared config profile]:profile'
  '--credentials[credentials JSON file]:file:_files'
  '--services[services to sweep]:services:_sequence compadd - iam s3 cognito dynamodb lambda stepfunctions apigateway'
  '--retry-delay[API Gateway retry pause]:duration'
  '--rate[delete calls per second]:rate'
  '--all-pages[follow every continuation token]'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'awssweep commands' cmds
    return
  fi

  case $words[2] in
    run)
      _arguments -C \
        $common \
        '(-y --yes)'{-y,--yes}'[delete without confirmation]'
      ;;
    plan)
      _arguments -C $common
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _awssweep awssweep
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(deps.out, bashCompletionScript)
	case "zsh":
		fmt.Fprint(deps.out, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(deps.out, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(deps.out, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: awssweep completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "awssweep completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
