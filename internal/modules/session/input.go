package session

import (
	"fmt"
	"strings"
)

// Buttons is a set of controller buttons.
type Buttons uint16

const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonPlus
	ButtonMinus
	ButtonOne
	ButtonTwo
	ButtonHome
	ButtonZ
	ButtonC
)

// buttonAliases are accepted on input only.
var buttonAliases = map[string]string{"1": "one", "2": "two"}

var buttonNames = []struct {
	button Buttons
	name   string
}{
	{ButtonUp, "up"},
	{ButtonDown, "down"},
	{ButtonLeft, "left"},
	{ButtonRight, "right"},
	{ButtonA, "a"},
	{ButtonB, "b"},
	{ButtonPlus, "plus"},
	{ButtonMinus, "minus"},
	{ButtonOne, "one"},
	{ButtonTwo, "two"},
	{ButtonHome, "home"},
	{ButtonZ, "z"},
	{ButtonC, "c"},
}

// Has reports whether every button in b is set.
func (set Buttons) Has(b Buttons) bool {
	return set&b == b && b != 0
}

func (set Buttons) String() string {
	names := []string{}
	for _, bn := range buttonNames {
		if set.Has(bn.button) {
			names = append(names, bn.name)
		}
	}
	return strings.Join(names, "+")
}

// ParseButtons maps button names such as "a" or "plus" to a set.
func ParseButtons(names []string) (Buttons, error) {
	var set Buttons
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if alias, ok := buttonAliases[name]; ok {
			name = alias
		}
		found := false
		for _, bn := range buttonNames {
			if bn.name == name {
				set |= bn.button
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown button %q", name)
		}
	}
	return set, nil
}

// Input is one frame of controller state. Pressed holds buttons that went
// down this frame; Held holds buttons that are down.
type Input struct {
	Pressed Buttons
	Held    Buttons
}

// Merge combines two inputs received within the same frame.
func (in Input) Merge(other Input) Input {
	return Input{Pressed: in.Pressed | other.Pressed, Held: in.Held | other.Held}
}

// Press returns an input where buttons went down and are held.
func Press(b Buttons) Input {
	return Input{Pressed: b, Held: b}
}
