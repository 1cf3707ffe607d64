package shell

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/wizzomafizzo/jmp/internal/constants"
)

// Shell names.
const (
	Bash = "bash"
	Zsh  = "zsh"
	Fish = "fish"
)

// Marker tags every line jmp adds to a shell rc file.
const Marker = "# jmp shell integration"

var supported = []string{Bash, Zsh, Fish}

// Supported returns the shells a wrapper can be generated for.
func Supported() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether shell has a wrapper.
func IsSupported(shell string) bool {
	return slices.Contains(supported, shell)
}

// Detect returns the user's shell from $SHELL, or "" when unset.
func Detect(getenv func(string) string) string {
	sh := getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

type wrapperData struct {
	Command  string
	Sentinel string
	Offset   int
	Marker   string
	ColorEnv string
	Shell    string
}

const bashWrapper = `{{.Marker}} ({{.Shell}})
{{.Command}}() {
  local out ret
  if [ -t 1 ] && [ -z "${{.ColorEnv}}" ]; then
    out="$({{.ColorEnv}}=always command {{.Command}} "$@")"
  else
    out="$(command {{.Command}} "$@")"
  fi
  ret=$?
  case "$out" in
    "{{.Sentinel}}"*) cd "${out#"{{.Sentinel}}"}" || return ;;
    *) [ -n "$out" ] && printf '%s\n' "$out" ;;
  esac
  return $ret
}
`

const bashCompletion = `_{{.Command}}_complete() {
  local IFS=$'\n'
  COMPREPLY=($(command {{.Command}} --complete -- "${COMP_WORDS[@]:1:COMP_CWORD}" 2>/dev/null))
}
complete -o filenames -o nospace -F _{{.Command}}_complete {{.Command}}
`

const zshCompletion = `_{{.Command}}_complete() {
  local -a candidates
  candidates=("${(@f)$(command {{.Command}} --complete -- "${(@)words[2,CURRENT]}" 2>/dev/null)}")
  compadd -Q -S '' -- "${candidates[@]}"
}
(( $+functions[compdef] )) && compdef _{{.Command}}_complete {{.Command}}
`

const fishWrapper = `{{.Marker}} ({{.Shell}})
function {{.Command}} --description 'jump to a bookmarked directory'
    set -l color ${{.ColorEnv}}
    if test -z "$color"; and isatty stdout
        set color always
    end
    set -l out (env {{.ColorEnv}}=$color {{.Command}} $argv | string collect)
    set -l ret $pipestatus[1]
    if string match -q -- '{{.Sentinel}}*' $out
        cd (string sub -s {{.Offset}} -- $out)
        or return
    else if test -n "$out"
        printf '%s\n' $out
    end
    return $ret
end
complete -c {{.Command}} -f -a '(command {{.Command}} --complete -- (commandline -opc)[2..-1] (commandline -ct) 2>/dev/null)'
`

var wrappers = map[string]*template.Template{
	Bash: template.Must(template.New(Bash).Parse(bashWrapper + bashCompletion)),
	Zsh:  template.Must(template.New(Zsh).Parse(bashWrapper + zshCompletion)),
	Fish: template.Must(template.New(Fish).Parse(fishWrapper)),
}

// Render renders the wrapper for shell.
func Render(shell string) (string, error) {
	tmpl, ok := wrappers[shell]
	if !ok {
		return "", fmt.Errorf("unsupported shell %q (supported: %s)", shell, strings.Join(supported, ", "))
	}

	data := wrapperData{
		Command:  constants.AppName,
		Sentinel: Sentinel,
		Offset:   len(Sentinel) + 1,
		Marker:   Marker,
		ColorEnv: constants.EnvColor,
		Shell:    shell,
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", fmt.Errorf("failed to render %s wrapper: %w", shell, err)
	}
	return result.String(), nil
}
