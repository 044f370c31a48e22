// Package prompt provides the interactive confirmations tmppg asks before
// overwriting files.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt with Ctrl+C.
var ErrAborted = errors.New("aborted")

// Confirm asks a yes/no question. Empty input picks defaultYes.
func Confirm(label string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, hint),
		IsConfirm: true,
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrAborted
		}
		// promptui reports "n" as ErrAbort.
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if result == "" {
			return defaultYes, nil
		}
		return false, err
	}

	result = strings.ToLower(result)
	return result == "y" || result == "yes", nil
}

// ConfirmWithForce skips the prompt when force is set.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}
