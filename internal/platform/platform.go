// Package platform приводит имена клавиш к единому виду, чтобы привязки из
// конфига совпадали с тем, что сообщает терминал.
package platform

import (
	"runtime"
	"sort"
	"strings"
)

// IsMac сообщает, запущены ли мы на macOS (darwin).
func IsMac() bool {
	return runtime.GOOS == "darwin"
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	// терминалы присылают command как ctrl
	"cmd":     "ctrl",
	"command": "ctrl",
	"⌘":       "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"⌥":       "alt",
	"meta":    "alt",
	"shift":   "shift",
	"⇧":       "shift",
}

var modifierOrder = map[string]int{
	"ctrl":  0,
	"alt":   1,
	"shift": 2,
}

// CanonicalKey нормализует описание клавиши: синонимы сворачиваются,
// модификаторы идут в порядке ctrl, alt, shift, одиночные буквы в нижнем
// регистре. "Shift+Ctrl+S" и "ctrl+shift+s" дают "ctrl+shift+s".
func CanonicalKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if key == "+" {
		return "+"
	}
	var mods []string
	var main []string
	for _, part := range strings.Split(key, "+") {
		if part == " " {
			main = append(main, "space")
			continue
		}
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if m, ok := modifierAliases[p]; ok {
			if !contains(mods, m) {
				mods = append(mods, m)
			}
			continue
		}
		main = append(main, p)
	}
	sort.SliceStable(mods, func(i, j int) bool {
		return modifierOrder[mods[i]] < modifierOrder[mods[j]]
	})
	return strings.Join(append(mods, main...), "+")
}

// MatchesKey сообщает, описывают ли строки одну и ту же клавишу.
func MatchesKey(actual, binding string) bool {
	if actual == "" || binding == "" {
		return false
	}
	return CanonicalKey(actual) == CanonicalKey(binding)
}

// DisplayKey форматирует привязку для подсказок: "ctrl+s" → "Ctrl+S".
// На macOS alt показывается как Option.
func DisplayKey(key string) string {
	canonical := CanonicalKey(key)
	if canonical == "" {
		return ""
	}
	parts := strings.Split(canonical, "+")
	for i, p := range parts {
		switch p {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			if IsMac() {
				parts[i] = "Option"
			} else {
				parts[i] = "Alt"
			}
		case "shift":
			parts[i] = "Shift"
		default:
			r := []rune(p)
			if len(r) == 1 {
				parts[i] = strings.ToUpper(p)
			} else {
				parts[i] = strings.ToUpper(string(r[0])) + string(r[1:])
			}
		}
	}
	return strings.Join(parts, "+")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
