package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/fontcoll/engine/text/fontcollection"
	"github.com/pterm/pterm"
	xfont "golang.org/x/image/font"
)

// Intp is our interpreter object
type Intp struct {
	repl *readline.Instance
	coll *fontcollection.Collection
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit := intp.execute(cmd); quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code    int
	arg     string
	variant string
}

const (
	QUIT int = iota
	HELP
	PROVIDERS
	FAMILY
	FAMILIES
	CHAR
	CLEAR
	NOFALLBACK
)

// parseCommand splits a line into ops of the form "op:arg:variant", e.g.
// "family:Go:bold-italic" or "char:U+03BB".
func parseCommand(line string) ([]Op, error) {
	steps := strings.Fields(line)
	ops := make([]Op, len(steps))
	for i, step := range steps {
		c := strings.Split(step, ":")
		ops[i].arg = getOptArg(c, 1)
		ops[i].variant = getOptArg(c, 2)
		switch strings.ToLower(c[0]) {
		case "quit", "exit":
			ops[i].code = QUIT
		case "help", "?":
			ops[i].code = HELP
		case "providers", "order":
			ops[i].code = PROVIDERS
		case "family":
			ops[i].code = FAMILY
		case "families":
			ops[i].code = FAMILIES
		case "char", "rune":
			ops[i].code = CHAR
		case "clear":
			ops[i].code = CLEAR
		case "nofallback":
			ops[i].code = NOFALLBACK
		default:
			return nil, fmt.Errorf("unknown command: %s", c[0])
		}
		if (ops[i].code == FAMILY || ops[i].code == FAMILIES || ops[i].code == CHAR) && ops[i].arg == "" {
			return nil, fmt.Errorf("command %s needs an argument", c[0])
		}
	}
	return ops, nil
}

func (intp *Intp) execute(ops []Op) bool {
	tracer().Debugf("cmd = %v", ops)
	for _, op := range ops {
		style, weight := font.ParseVariant(op.variant)
		switch op.code {
		case QUIT:
			return true
		case HELP:
			help()
		case PROVIDERS:
			intp.showProviders()
		case FAMILY:
			fonts := intp.coll.Composite().MatchFamily(op.arg, style, weight)
			if len(fonts) == 0 {
				pterm.Printfln("no provider knows family %q", op.arg)
				break
			}
			showFonts(fonts)
		case FAMILIES:
			families := strings.Split(op.arg, ",")
			showFonts(intp.coll.Composite().MatchFamilies(families, style, weight))
		case CHAR:
			r, err := parseRune(op.arg)
			if err != nil {
				pterm.Error.Println(err.Error())
				break
			}
			f := intp.coll.Composite().DefaultFallback(r, style, weight)
			if f == nil {
				pterm.Printfln("no fallback font for %U", r)
				break
			}
			pterm.Printfln("%U is covered by %s", r, f)
		case CLEAR:
			intp.coll.ClearFamilyCache()
			pterm.Printfln("family cache cleared")
		case NOFALLBACK:
			intp.coll.DisableFallback()
			pterm.Printfln("fallback fonts disabled")
		}
	}
	return false
}

func (intp *Intp) showProviders() {
	order := intp.coll.ProviderOrder()
	pterm.Info.Printfln("font collection has %d providers, fallback %s",
		intp.coll.CountProviders(), onOff(intp.coll.FallbackEnabled()))
	data := pterm.TableData{{"#", "Provider", "Families"}}
	for i, p := range order {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%v", p),
			strconv.Itoa(len(p.Families())),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func showFonts(fonts []*font.ScalableFont) {
	data := pterm.TableData{{"Font", "Family", "Style", "Weight", "Path"}}
	for _, f := range fonts {
		data = append(data, []string{
			f.Fontname,
			f.Family,
			styleName(f.Style),
			strconv.Itoa(int(f.Weight)*100 + 400),
			f.Filepath,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// parseRune accepts a single character or a code point like "U+03BB".
func parseRune(s string) (rune, error) {
	if u := strings.TrimPrefix(strings.ToUpper(s), "U+"); len(u) < len(s) {
		n, err := strconv.ParseUint(u, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("not a code point: %s", s)
		}
		return rune(n), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character: %s", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func styleName(s xfont.Style) string {
	switch s {
	case xfont.StyleItalic:
		return "italic"
	case xfont.StyleOblique:
		return "oblique"
	}
	return "normal"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func getOptArg(c []string, n int) string {
	if len(c) > n {
		return c[n]
	}
	return ""
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	providers                  show the provider chain
	family:<name>[:variant]    fonts of a family, best match first
	families:<a,b,..>[:variant] best font for each family, with defaults and fallback
	char:<c|U+xxxx>[:variant]  fallback font for a character
	clear                      clear the family cache
	nofallback                 disable fallback fonts
	quit                       leave

	A variant names style and weight, e.g. "bold-italic", "light" or "700".
	Family names must not contain spaces; they are matched ignoring case, '-' and '_'.
	`)
}
