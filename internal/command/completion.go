// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/meta"
)

const bashCompletionScript = `# bash completion for docdash
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_docdash()
{
    local cur prev cmd sub
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "project repo import github files completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    sub=${COMP_WORDS[2]}
    local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t --tldr --schema --api-url"

    if [[ ${COMP_CWORD} -eq 2 ]]; then
        case "$cmd" in
        project|repo)
            COMPREPLY=( $(compgen -W "list get create rename delete" -- "$cur") )
            return 0
            ;;
        import)
            COMPREPLY=( $(compgen -W "local github" -- "$cur") )
            return 0
            ;;
        github)
            COMPREPLY=( $(compgen -W "repos" -- "$cur") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        esac
    fi

    local opts="$common"
    case "$cmd $sub" in
    "project list")
        opts="$common --force -F"
        ;;
    "project get")
        opts="$common --force -F --id"
        ;;
    "project create")
        opts="$common --name -n --description -d"
        ;;
    "project rename")
        opts="$common --id --name -n"
        ;;
    "project delete")
        opts="$common --id"
        ;;
    "repo list")
        opts="$common --force -F --project -p"
        ;;
    "repo get")
        opts="$common --force -F --project -p --id"
        ;;
    "repo create")
        opts="$common --project -p --name -n --url"
        ;;
    "repo rename")
        opts="$common --project -p --id --name -n"
        ;;
    "repo delete")
        opts="$common --project -p --id"
        ;;
    "import local")
        opts="$common --project -p --name -n --dry-run"
        ;;
    "import github")
        opts="$common --project -p --name -n --url"
        ;;
    files*)
        opts="$common --force -F --repo -r --tree"
        ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* || "$cmd $sub" != "import local" ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # import local takes the folder to upload.
    COMPREPLY=( $(compgen -o dirnames -- "$cur") )
    return 0
}

complete -F _docdash docdash
`

const zshCompletionScript = `#compdef docdash

_docdash() {
  local -a cmds
  cmds=(
    'project:list and manage projects'
    'repo:list and manage the repositories of a project'
    'import:create a repository from a local folder or a GitHub repository'
    'github:query the linked GitHub account'
    'files:list the files stored for a repository'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--api-url[dashboard API url]:url'
  '--schema[dump schema]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'docdash commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    project)
      if (( CURRENT == 3 )); then
        _values 'project command' list get create rename delete
        return
      fi
      _arguments -C \
        $common \
        '(-F --force)'{-F,--force}'[bypass the cache]' \
        '--id[project id]:id' \
        '(-n --name)'{-n,--name}'[name]:name' \
        '(-d --description)'{-d,--description}'[description]:description'
      ;;
    repo)
      if (( CURRENT == 3 )); then
        _values 'repo command' list get create rename delete
        return
      fi
      _arguments -C \
        $common \
        '(-F --force)'{-F,--force}'[bypass the cache]' \
        '(-p --project)'{-p,--project}'[project id]:project' \
        '--id[repository id]:id' \
        '(-n --name)'{-n,--name}'[name]:name' \
        '--url[GitHub url]:url'
      ;;
    import)
      if (( CURRENT == 3 )); then
        _values 'import command' local github
        return
      fi
      _arguments -C \
        $common \
        '(-p --project)'{-p,--project}'[project id]:project' \
        '(-n --name)'{-n,--name}'[repository name]:name' \
        '--url[GitHub url]:url' \
        '--dry-run[list files only]' \
        '::folder:_directories'
      ;;
    github)
      _values 'github command' repos
      ;;
    files)
      _arguments -C \
        $common \
        '(-F --force)'{-F,--force}'[bypass the cache]' \
        '(-r --repo)'{-r,--repo}'[repository id]:repo' \
        '--tree[show a folder tree]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _docdash docdash
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := writer(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(errWriter(cmd), "usage: docdash completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "docdash completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
