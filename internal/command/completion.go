// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/meta"
)

const bashCompletionScript = `# bash completion for osmx
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_osmx()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "extract ls exists get put xlsx check diff inspect completion --help --version --env-file" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local store="--bucket -b --region --endpoint --profile"
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
        extract)
            local opts="$store --key -k --values -V --folder --name --filter -f --jobs -j --force --allow-empty --dry-run --out-dir --parallel -p --no-progress --no-cache --overpass-url --nominatim-url --output -o --sort -s --titles -t --color -c --attrs -a"
            ;;
        ls)
            local opts="$store $common --sizes"
            ;;
        get)
            local opts="$store $common --folder --out"
            ;;
        xlsx)
            local opts="$store $common --folder"
            ;;
        exists)
            local opts="$store --folder --raw"
            ;;
        put)
            local opts="$store --folder --name"
            ;;
        check)
            local opts="$store"
            ;;
        diff)
            local opts="$store --folder --ignore --color -c --exit-code"
            ;;
        inspect)
            local opts="$store --folder"
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

    if [[ "$prev" == "--jobs" || "$prev" == "-j" || "$prev" == "--out-dir" || "$prev" == "--out" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # put, diff and inspect take local files
    case "$cmd" in
        put|diff|inspect)
            COMPREPLY=( $(compgen -f -- "$cur") )
            ;;
    esac
    return 0
}

complete -F _osmx osmx
`

const zshCompletionScript = `#compdef osmx

_osmx() {
  local -a cmds
  cmds=(
    'extract:extract OSM amenities for places into the bucket'
    'ls:list objects in the bucket'
    'exists:check whether a collection exists in the bucket'
    'get:download a collection from the bucket'
    'put:upload a local file to the bucket'
    'xlsx:print a workbook stored in the bucket'
    'check:verify access to the bucket'
    'diff:compare two collections'
    'inspect:interactive collection inspector'
    'completion:generate shell completion script'
  )

  local -a store
  store=(
  '(-b --bucket)'{-b,--bucket}'[bucket]:bucket'
  '--region[region]:region'
  '--endpoint[S3-compatible endpoint]:url'
  '--profile[AWS profile]:profile'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'osmx commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    extract)
      _arguments -C \
        $store \
        '(-k --key)'{-k,--key}'[tag key]:key' \
        '(-V --values)'{-V,--values}'[tag values]:values' \
        '--folder[key prefix]:folder' \
        '--name[object name]:name' \
        '(-f --filter)'{-f,--filter}'[feature filters]:filters' \
        '(-j --jobs)'{-j,--jobs}'[jobs file]:file:_files' \
        '--force[re-extract existing collections]' \
        '--allow-empty[store empty collections]' \
        '--dry-run[write locally]' \
        '--out-dir[dry-run directory]:dir:_directories' \
        '(-p --parallel)'{-p,--parallel}'[concurrent places]:n' \
        '--no-progress[log progress]' \
        '--no-cache[do not cache OSM responses]' \
        '--overpass-url[Overpass endpoint]:url' \
        '--nominatim-url[Nominatim endpoint]:url' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '*:place'
      ;;
    ls)
      _arguments -C $store $common '--sizes[include sizes]' '::prefix'
      ;;
    get)
      _arguments -C $store $common '--folder[key prefix]:folder' '--out[output file]:file:_files' ':name'
      ;;
    xlsx)
      _arguments -C $store $common '--folder[key prefix]:folder' ':name'
      ;;
    exists)
      _arguments -C $store '--folder[key prefix]:folder' '--raw[NAME includes its extension]' ':name'
      ;;
    put)
      _arguments -C $store '--folder[key prefix]:folder' '--name[object name]:name' ':file:_files'
      ;;
    check)
      _arguments -C $store
      ;;
    diff)
      _arguments -C $store '--folder[key prefix]:folder' '--ignore[ignored properties]:props' \
        '(-c --color)'{-c,--color}'[colored diff]' '--exit-code[exit non-zero on differences]' '*:operand:_files'
      ;;
    inspect)
      _arguments -C $store '--folder[key prefix]:folder' ':operand:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _osmx osmx
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: osmx completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "osmx completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
