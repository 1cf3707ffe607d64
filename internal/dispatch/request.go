package dispatch

import (
	"fmt"
	"strings"

	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/shell"
)

// Mode is the single action an invocation performs.
type Mode int

const (
	ModeList Mode = iota
	ModeCreate
	ModeJump
	ModeDelete
	ModeExpand
	ModeClear
	ModePrune
	ModeComplete
	ModeInit
	ModeInstall
	ModeUninstall
	ModeStatus
)

var modeNames = map[Mode]string{
	ModeList:      "list",
	ModeCreate:    "create",
	ModeJump:      "jump",
	ModeDelete:    "delete",
	ModeExpand:    "expand",
	ModeClear:     "clear",
	ModePrune:     "prune",
	ModeComplete:  "complete",
	ModeInit:      "init",
	ModeInstall:   "install",
	ModeUninstall: "uninstall",
	ModeStatus:    "status",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options holds the command line flags as parsed by the CLI layer.
type Options struct {
	Init      string
	Shell     string
	RCPath    string
	Prefix    string
	Relative  bool
	Absolute  bool
	List      bool
	Delete    bool
	Expand    bool
	Clear     bool
	Prune     bool
	Complete  bool
	Install   bool
	Uninstall bool
	Status    bool
}

// Request is a validated invocation.
type Request struct {
	Name     string
	Target   string
	Shell    string
	RCPath   string
	Prefix   string
	Words    []string
	Mode     Mode
	Relative bool
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// ParseRequest turns flags and positional arguments into exactly one mode.
func ParseRequest(opts Options, args []string) (Request, error) {
	actions := opts.actions()
	if len(actions) > 1 {
		return Request{}, usagef("flags %s cannot be combined", strings.Join(actions, ", "))
	}
	if opts.Relative && opts.Absolute {
		return Request{}, usagef("-r and -a cannot be combined")
	}

	installing := opts.Install || opts.Uninstall
	if !installing && (opts.RCPath != "" || opts.Prefix != "") {
		return Request{}, usagef("--rc and --prefix need --install or --uninstall")
	}
	if !installing && opts.Shell != "" {
		return Request{}, usagef("--shell needs --install or --uninstall")
	}

	if len(actions) == 1 {
		if opts.Relative || opts.Absolute {
			return Request{}, usagef("-r and -a only apply when creating a bookmark")
		}
		return opts.parseAction(args)
	}

	switch len(args) {
	case 0:
		if opts.Relative || opts.Absolute {
			return Request{}, usagef("-r and -a need a name and a path")
		}
		return Request{Mode: ModeList}, nil
	case 1:
		if opts.Relative || opts.Absolute {
			return Request{}, usagef("-r and -a need a name and a path")
		}
		if args[0] == "" {
			return Request{}, usagef("empty bookmark name")
		}
		return Request{Mode: ModeJump, Target: args[0]}, nil
	case 2:
		if err := bookmark.ValidateName(args[0]); err != nil {
			return Request{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		if args[1] == "" {
			return Request{}, usagef("empty path for %q", args[0])
		}
		return Request{Mode: ModeCreate, Name: args[0], Target: args[1], Relative: opts.Relative}, nil
	default:
		return Request{}, usagef("expected at most a name and a path, got %d arguments", len(args))
	}
}

func (o Options) actions() []string {
	var set []string
	flags := []struct {
		name string
		on   bool
	}{
		{"-l", o.List},
		{"-d", o.Delete},
		{"-e", o.Expand},
		{"--clear", o.Clear},
		{"--prune", o.Prune},
		{"--complete", o.Complete},
		{"--init", o.Init != ""},
		{"--install", o.Install},
		{"--uninstall", o.Uninstall},
		{"--status", o.Status},
	}
	for _, f := range flags {
		if f.on {
			set = append(set, f.name)
		}
	}
	return set
}

func (o Options) parseAction(args []string) (Request, error) {
	switch {
	case o.Complete:
		return Request{Mode: ModeComplete, Words: args}, nil
	case o.Delete, o.Expand:
		mode, flag := ModeDelete, "-d"
		if o.Expand {
			mode, flag = ModeExpand, "-e"
		}
		if len(args) != 1 || args[0] == "" {
			return Request{}, usagef("%s takes exactly one name", flag)
		}
		return Request{Mode: mode, Target: args[0]}, nil
	}

	if len(args) != 0 {
		return Request{}, usagef("unexpected arguments: %s", strings.Join(args, " "))
	}

	switch {
	case o.List:
		return Request{Mode: ModeList}, nil
	case o.Clear:
		return Request{Mode: ModeClear}, nil
	case o.Prune:
		return Request{Mode: ModePrune}, nil
	case o.Status:
		return Request{Mode: ModeStatus}, nil
	case o.Init != "":
		if !shell.IsSupported(o.Init) {
			return Request{}, usagef("unsupported shell %q (supported: %s)",
				o.Init, strings.Join(shell.Supported(), ", "))
		}
		return Request{Mode: ModeInit, Shell: o.Init}, nil
	default:
		mode := ModeInstall
		if o.Uninstall {
			mode = ModeUninstall
		}
		if o.Shell != "" && !shell.IsSupported(o.Shell) {
			return Request{}, usagef("unsupported shell %q (supported: %s)",
				o.Shell, strings.Join(shell.Supported(), ", "))
		}
		return Request{Mode: mode, Shell: o.Shell, RCPath: o.RCPath, Prefix: o.Prefix}, nil
	}
}
