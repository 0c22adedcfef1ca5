package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type debug struct {
	Formula  bool
	Index    bool
	Reactive bool
	Eval     bool
}

var (
	d   *debug
	out io.Writer = os.Stderr
	tag           = color.New(color.FgCyan, color.Bold)
)

func init() {
	d = &debug{}
	d.Formula = boolEnv("O_DEBUG_FORMULA")
	d.Index = boolEnv("O_DEBUG_INDEX")
	d.Reactive = boolEnv("O_DEBUG_REACTIVE")
	d.Eval = boolEnv("O_DEBUG_EVAL")
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		tag.DisableColor()
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Formula() bool {
	return d.Formula
}
func Index() bool {
	return d.Index
}
func Reactive() bool {
	return d.Reactive
}
func Eval() bool {
	return d.Eval
}

// Logf writes one trace line to stderr prefixed by topic. Map and slice
// arguments are rendered as JSON.
func Logf(topic, format string, args ...any) {
	for i, a := range args {
		switch a.(type) {
		case map[string]any, []any, []string:
			args[i] = jsonString(a)
		}
	}
	fmt.Fprintf(out, "%s "+format+"\n", append([]any{tag.Sprintf("[%s]", topic)}, args...)...)
}

func jsonString(v any) string {
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(d)
}
