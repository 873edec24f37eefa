// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
)

// scanModes lists the valid values of the -mode flag for completion.
const scanModes = "single pq init all"

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	case "powershell", "ps":
		return generatePowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	script := `# Bash completion script for divseq
# Add this to your ~/.bashrc or ~/.bash_completion

_divseq_completions() {
    local cur prev opts modes
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="--help -h --version -V -mode -p -q -x0 -x1 -n -terms -p-min -p-max -q-min -q-max -x0-min -x0-max -x1-min -x1-max -workers -timeout -v -json -server -port -no-color -report -o -stream -quiet -interactive -completion -no-companion"

    # Available scan modes
    modes="%s"

    case "${prev}" in
        -mode)
            COMPREPLY=( $(compgen -W "${modes}" -- "${cur}") )
            return 0
            ;;
        -completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
        -report|-o)
            # File/directory completion
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        -port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        -timeout)
            COMPREPLY=( $(compgen -W "30s 1m 5m 10m 1h" -- "${cur}") )
            return 0
            ;;
        -n)
            COMPREPLY=( $(compgen -W "10 20 30 50 100" -- "${cur}") )
            return 0
            ;;
        -workers)
            COMPREPLY=( $(compgen -W "1 2 4 8 16" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _divseq_completions divseq
`
	_, err := fmt.Fprintf(out, script, scanModes)
	return err
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	script := `#compdef divseq

# Zsh completion script for divseq
# Add this to your ~/.zshrc or place in $fpath

_divseq() {
    local -a modes
    modes=(%s)

    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '-mode[Scan mode]:mode:($modes)' \
        '-p[Coefficient P]:integer:' \
        '-q[Coefficient Q]:integer:' \
        '-x0[Initial term x(0)]:integer:' \
        '-x1[Initial term x(1)]:integer:' \
        '-n[Max index to test]:number:(10 20 30 50 100)' \
        '-terms[Leading terms kept per result]:number:(6 7 8)' \
        '-p-min[Lower bound of the P range]:integer:' \
        '-p-max[Upper bound of the P range]:integer:' \
        '-q-min[Lower bound of the Q range]:integer:' \
        '-q-max[Upper bound of the Q range]:integer:' \
        '-x0-min[Lower bound of the x0 range]:integer:' \
        '-x0-max[Upper bound of the x0 range]:integer:' \
        '-x1-min[Lower bound of the x1 range]:integer:' \
        '-x1-max[Upper bound of the x1 range]:integer:' \
        '-workers[Number of concurrent evaluators]:number:(1 2 4 8 16)' \
        '-timeout[Maximum execution time]:duration:(30s 1m 5m 10m 1h)' \
        '-v[List every accepted combination]' \
        '-json[Output in JSON format]' \
        '-server[Start HTTP server mode]' \
        '-port[Server port]:port:(8080 3000 5000 9000)' \
        '-no-color[Disable colored output]' \
        '(-o -report)'{-o,-report}'[Report file path]:file:_files' \
        '-stream[Stream accepted results to the report file]' \
        '-quiet[Quiet mode for scripts]' \
        '-interactive[Start the interactive prompt]' \
        '-completion[Generate completion script]:shell:(bash zsh fish powershell)' \
        '-no-companion[Skip the U-type companion comparison]'
}

_divseq "$@"
`
	_, err := fmt.Fprintf(out, script, scanModes)
	return err
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	script := `# Fish completion script for divseq
# Add this to ~/.config/fish/completions/divseq.fish

# Disable file completion by default
complete -c divseq -f

# Help and version
complete -c divseq -s h -l help -d 'Show help message'
complete -c divseq -s V -l version -d 'Show version information'

# Main options
complete -c divseq -o mode -d 'Scan mode' -xa '%s'
complete -c divseq -s p -d 'Coefficient P' -x
complete -c divseq -s q -d 'Coefficient Q' -x
complete -c divseq -o x0 -d 'Initial term x(0)' -x
complete -c divseq -o x1 -d 'Initial term x(1)' -x
complete -c divseq -s n -d 'Max index to test' -xa '10 20 30 50 100'
complete -c divseq -o terms -d 'Leading terms kept per result' -xa '6 7 8'

# Range bounds
complete -c divseq -o p-min -d 'Lower bound of the P range' -x
complete -c divseq -o p-max -d 'Upper bound of the P range' -x
complete -c divseq -o q-min -d 'Lower bound of the Q range' -x
complete -c divseq -o q-max -d 'Upper bound of the Q range' -x
complete -c divseq -o x0-min -d 'Lower bound of the x0 range' -x
complete -c divseq -o x0-max -d 'Upper bound of the x0 range' -x
complete -c divseq -o x1-min -d 'Lower bound of the x1 range' -x
complete -c divseq -o x1-max -d 'Upper bound of the x1 range' -x

# Execution options
complete -c divseq -o workers -d 'Number of concurrent evaluators' -xa '1 2 4 8 16'
complete -c divseq -o timeout -d 'Maximum execution time' -xa '30s 1m 5m 10m 1h'

# Output options
complete -c divseq -s v -d 'List every accepted combination'
complete -c divseq -o json -d 'Output in JSON format'
complete -c divseq -s o -o report -d 'Report file path' -rF
complete -c divseq -o stream -d 'Stream accepted results to the report file'
complete -c divseq -o quiet -d 'Quiet mode for scripts'
complete -c divseq -o no-color -d 'Disable colored output'
complete -c divseq -o no-companion -d 'Skip the U-type companion comparison'

# Server mode
complete -c divseq -o server -d 'Start HTTP server mode'
complete -c divseq -o port -d 'Server port' -xa '8080 3000 5000 9000'

# Interactive and completion
complete -c divseq -o interactive -d 'Start the interactive prompt'
complete -c divseq -o completion -d 'Generate completion script' -xa 'bash zsh fish powershell'
`
	_, err := fmt.Fprintf(out, script, scanModes)
	return err
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer) error {
	script := `# PowerShell completion script for divseq
# Add this to your $PROFILE

$divseqModes = @('single', 'pq', 'init', 'all')

Register-ArgumentCompleter -CommandName 'divseq' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
        @{Name = '-h'; Description = 'Show help message' }
        @{Name = '--help'; Description = 'Show help message' }
        @{Name = '-V'; Description = 'Show version information' }
        @{Name = '--version'; Description = 'Show version information' }
        @{Name = '-mode'; Description = 'Scan mode' }
        @{Name = '-p'; Description = 'Coefficient P' }
        @{Name = '-q'; Description = 'Coefficient Q' }
        @{Name = '-x0'; Description = 'Initial term x(0)' }
        @{Name = '-x1'; Description = 'Initial term x(1)' }
        @{Name = '-n'; Description = 'Max index to test' }
        @{Name = '-terms'; Description = 'Leading terms kept per result' }
        @{Name = '-p-min'; Description = 'Lower bound of the P range' }
        @{Name = '-p-max'; Description = 'Upper bound of the P range' }
        @{Name = '-q-min'; Description = 'Lower bound of the Q range' }
        @{Name = '-q-max'; Description = 'Upper bound of the Q range' }
        @{Name = '-x0-min'; Description = 'Lower bound of the x0 range' }
        @{Name = '-x0-max'; Description = 'Upper bound of the x0 range' }
        @{Name = '-x1-min'; Description = 'Lower bound of the x1 range' }
        @{Name = '-x1-max'; Description = 'Upper bound of the x1 range' }
        @{Name = '-workers'; Description = 'Number of concurrent evaluators' }
        @{Name = '-timeout'; Description = 'Maximum execution time' }
        @{Name = '-v'; Description = 'List every accepted combination' }
        @{Name = '-json'; Description = 'Output in JSON format' }
        @{Name = '-server'; Description = 'Start HTTP server mode' }
        @{Name = '-port'; Description = 'Server port' }
        @{Name = '-no-color'; Description = 'Disable colored output' }
        @{Name = '-o'; Description = 'Report file path' }
        @{Name = '-report'; Description = 'Report file path' }
        @{Name = '-stream'; Description = 'Stream accepted results to the report file' }
        @{Name = '-quiet'; Description = 'Quiet mode for scripts' }
        @{Name = '-interactive'; Description = 'Start the interactive prompt' }
        @{Name = '-completion'; Description = 'Generate completion script' }
        @{Name = '-no-companion'; Description = 'Skip the U-type companion comparison' }
    )

    $elements = $commandAst.CommandElements
    $lastElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
        '-mode' {
            $divseqModes | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '-completion' {
            @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '-timeout' {
            @('30s', '1m', '5m', '10m', '1h') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '-port' {
            @('8080', '3000', '5000', '9000') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
	_, err := fmt.Fprint(out, script)
	return err
}
