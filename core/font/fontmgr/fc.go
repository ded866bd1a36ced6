package fontmgr

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontcoll/core"
	"github.com/npillmayer/fontcoll/core/font"
	"github.com/npillmayer/schuko"
)

// Fonts known to fontconfig (https://www.freedesktop.org/wiki/Software/fontconfig/)
// are listed by calling the 'fc-list' binary, which has to be configured in
// the application configuration with key 'fontconfig' (absolute path).
//
// The output of fc-list is copied to the user's config directory once, into
// a sub-folder named by configuration key 'app-key'. Subsequent runs use the
// cached listing.
//
// We call the binary instead of using the C library because of possible version
// issues.

func findFontConfigBinary(conf schuko.Configuration) (string, error) {
	if conf == nil || conf.GetString("fontconfig") == "" {
		return "", core.Error(core.EMISSING,
			"fontconfig not configured: key 'fontconfig' should point to location of 'fc-list' binary")
	}
	fcpath := conf.GetString("fontconfig")
	if !filepath.IsAbs(fcpath) {
		return "", core.Error(core.EINVALID, "fontconfig binary fc-list must point to absolute path: %s", fcpath)
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
	}
	return fcpath, nil
}

// cacheFontConfigList returns the path of the cached fc-list output, creating
// it if necessary or if update is set.
func cacheFontConfigList(conf schuko.Configuration, update bool) (string, error) {
	dir, err := fontConfigCacheDir(conf)
	if err != nil {
		return "", err
	}
	fcListFilename := filepath.Join(dir, "fontlist.txt")
	if _, err := os.Stat(fcListFilename); err == nil && !update {
		return fcListFilename, nil
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return "", core.WrapError(err, core.EINVALID,
			"user configuration path cannot be created: %s", dir)
	}
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		return "", err
	}
	fontlistFile, err := os.Create(fcListFilename)
	if err == nil {
		defer fontlistFile.Close()
		fccmd := exec.Command(fcpath)
		fccmd.Stdout = fontlistFile
		err = fccmd.Run()
	}
	if err != nil {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename)
	}
	tracer().Infof("cached fontconfig list in %s", fcListFilename)
	return fcListFilename, nil
}

// fontConfigCacheDir is the directory of the cached fc-list output, a
// sub-folder 'app-key' of the user's config directory.
func fontConfigCacheDir(conf schuko.Configuration) (string, error) {
	if conf == nil {
		return "", core.Error(core.EMISSING, "no configuration for fontconfig cache")
	}
	appkey := conf.GetString("app-key")
	tracer().Debugf("config[app-key] = %s", appkey)
	uconfdir, err := os.UserConfigDir()
	if appkey == "" || err != nil {
		return "", core.WrapError(err, core.EMISSING, "user config directory or app-key not set")
	}
	return filepath.Join(uconfdir, appkey), nil
}

// loadFontConfigList reads the (cached) list of fonts known to fontconfig.
func loadFontConfigList(conf schuko.Configuration) ([]font.Descriptor, error) {
	fclist, err := cacheFontConfigList(conf, false)
	if err != nil {
		return nil, err
	}
	fc, err := os.Open(fclist)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID,
			"fontconfig font list cannot be opened: %s", fclist)
	}
	defer fc.Close()
	descs, ttc, err := parseFontConfigList(fc)
	if err != nil {
		return descs, core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of fontconfig font list: %s", fclist)
	}
	if ttc > 0 {
		tracer().Infof("skipping %d platform fonts: TTC not yet supported", ttc)
	}
	return descs, nil
}

// parseFontConfigList reads lines of fc-list's default output format:
//
//	/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf: DejaVu Sans:style=Bold
//
// Font collections (*.ttc) are counted but skipped.
func parseFontConfigList(r io.Reader) (descs []font.Descriptor, ttc int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		fontpath := strings.TrimSpace(fields[0])
		if strings.HasSuffix(strings.ToLower(fontpath), ".ttc") {
			ttc++
			continue
		}
		family := firstOf(fields[1])
		family = strings.TrimPrefix(family, ".")
		variant := firstOf(strings.TrimPrefix(strings.TrimSpace(fields[2]), "style="))
		desc := font.Descriptor{
			Family: family,
			Path:   fontpath,
		}
		desc.Style, desc.Weight = font.ParseVariant(variant)
		descs = append(descs, desc)
	}
	return descs, ttc, scanner.Err()
}

// firstOf returns the first of a comma-separated list of names.
func firstOf(names string) string {
	if comma := strings.Index(names, ","); comma >= 0 {
		names = names[:comma]
	}
	return strings.TrimSpace(names)
}
