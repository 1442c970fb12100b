package main

import (
	"os"
	"slices"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8Sep   = "\x1b\\"
	osc8End   = "\x1b]8;;\x1b\\"
)

var osc8TermPrograms = []string{"iTerm.app", "WezTerm", "vscode", "ghostty"}

func detectOSC8Support() bool {
	return osc8Supported(os.Getenv)
}

// osc8Supported guesses from the environment whether the terminal renders
// OSC 8 hyperlinks. OSC8=0 always disables them.
func osc8Supported(getenv func(string) string) bool {
	switch {
	case getenv("OSC8") == "0":
		return false
	case getenv("DOMTERM") != "", getenv("WT_SESSION") != "":
		return true
	case slices.Contains(osc8TermPrograms, getenv("TERM_PROGRAM")):
		return true
	case strings.Contains(strings.ToLower(getenv("TERM")), "kitty"):
		return true
	}
	n, err := strconv.Atoi(getenv("VTE_VERSION"))
	return err == nil && n >= 5000
}

// osc8Link wraps text in a hyperlink escape pointing at target.
func osc8Link(target, text string) string {
	return osc8Start + target + osc8Sep + text + osc8End
}
