/*
Command fontcoll is an interactive tool for inspecting font resolution.

It sets up a font collection from command line flags and then reads commands
from a REPL, resolving family names and characters against the collection:

	fontcoll -system -gofonts -assets ./assets -manifest FontManifest.yaml

Type 'help' at the prompt for a list of commands.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/fontcoll/core/font/fontmgr"
	"github.com/npillmayer/fontcoll/engine/text/fontcollection"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontcoll.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontcoll.cli")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	system := flag.Bool("system", false, "Use fonts from the platform's font directories")
	fcList := flag.String("fontconfig", "", "Absolute path of the fc-list binary")
	gofonts := flag.Bool("gofonts", true, "Include the Go fonts with the default provider")
	assets := flag.String("assets", "", "Directory of bundled font assets")
	manifest := flag.String("manifest", "", "Font manifest (YAML/JSON) within the assets directory")
	css := flag.String("css", "", "Stylesheet with @font-face rules within the assets directory")
	register := flag.String("register", "", "Comma-separated font files to register at runtime")
	testFamily := flag.String("testfamily", "", "Family which serves every request of the test provider")
	nofallback := flag.Bool("nofallback", false, "Disable fallback fonts")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.fontcoll.cli":        *tlevel,
		"trace.fontcoll.collection": *tlevel,
		"trace.fontcoll.fonts":      *tlevel,
		"fontconfig":                *fcList,
		"app-key":                   "fontcoll",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the font collection CLI")
	tracer().Infof("Trace level is %s", *tlevel)

	// set up the font collection
	coll := fontcollection.New()
	var init fontmgr.InitData
	if *system {
		init |= fontmgr.SystemFonts
	}
	if *fcList != "" {
		init |= fontmgr.FontConfig
	}
	if *gofonts {
		init |= fontmgr.GoFontsData
	}
	coll.SetupDefaultProvider(init, conf)
	if *assets != "" {
		ap, err := loadAssets(*assets, *manifest, *css)
		if err != nil {
			tracer().Errorf("%v", err)
			os.Exit(2)
		}
		coll.SetAssetProvider(ap)
	}
	if *register != "" {
		dp, err := registerFonts(strings.Split(*register, ","))
		if err != nil {
			tracer().Errorf("%v", err)
			os.Exit(2)
		}
		coll.SetDynamicProvider(dp)
	}
	if *testFamily != "" {
		base := coll.AssetProvider()
		if base == nil {
			base = coll.DefaultProvider()
		}
		if base == nil {
			tracer().Errorf("test family requires an asset or default provider")
			os.Exit(2)
		}
		coll.SetTestProvider(fontmgr.NewTestProvider(base, *testFamily))
	}
	if *nofallback {
		coll.DisableFallback()
	}

	// set up REPL
	repl, err := readline.New("fc > ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, coll: coll}
	intp.showProviders()
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
	coll.Close()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func loadAssets(dir, manifest, css string) (*fontmgr.AssetProvider, error) {
	ap := fontmgr.NewAssetProvider(os.DirFS(dir))
	if manifest != "" {
		if err := ap.LoadManifest(manifest); err != nil {
			return nil, err
		}
	}
	if css != "" {
		if err := ap.LoadFontFaceRules(css); err != nil {
			return nil, err
		}
	}
	return ap, nil
}

func registerFonts(paths []string) (*fontmgr.DynamicProvider, error) {
	dp := fontmgr.NewDynamicProvider()
	for _, path := range paths {
		path = strings.TrimSpace(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		family := font.GuessFamily(filepath.Base(path))
		if err = dp.Register(family, data); err != nil {
			return nil, err
		}
	}
	return dp, nil
}
