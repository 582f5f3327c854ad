package modelfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Candidate is one location the resolver probes, in order.
type Candidate struct {
	Label string
	Path  string
}

// Config lists the search inputs. OverridePath wins when set; DevMode adds
// the build workspace's resource folder for local runs.
type Config struct {
	OverridePath string
	FileName     string
	ResourceDir  string
	AppDataDir   string
	DevMode      bool
}

// Candidates returns the ordered probe list for the configuration.
func Candidates(cfg Config) []Candidate {
	file := cfg.FileName
	if file == "" {
		file = "veil.gguf"
	}
	var out []Candidate
	if cfg.OverridePath != "" {
		out = append(out, Candidate{Label: "override", Path: cfg.OverridePath})
	}
	if cfg.ResourceDir != "" {
		out = append(out,
			Candidate{Label: "resource_dir", Path: filepath.Join(cfg.ResourceDir, file)},
			Candidate{Label: "resource_dir/resources", Path: filepath.Join(cfg.ResourceDir, "resources", file)},
		)
	}
	appData := cfg.AppDataDir
	if appData == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			appData = filepath.Join(dir, "theveil")
		}
	}
	if appData != "" {
		out = append(out, Candidate{Label: "app_data_dir", Path: filepath.Join(appData, file)})
	}
	if cfg.DevMode {
		out = append(out,
			Candidate{Label: "workspace/resources", Path: filepath.Join("resources", file)},
			Candidate{Label: "workspace/../resources", Path: filepath.Join("..", "resources", file)},
		)
	}
	return out
}

// Resolve walks the candidates and returns the first one that exists as a
// regular file. When none match, the error enumerates every candidate with
// its observed status so a missing model is diagnosable from the message
// alone.
func Resolve(cfg Config) (string, error) {
	candidates := Candidates(cfg)
	for _, candidate := range candidates {
		info, err := os.Stat(candidate.Path)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			return candidate.Path, nil
		}
		return "", fmt.Errorf("model path %s exists but is not a file", candidate.Path)
	}

	file := cfg.FileName
	if file == "" {
		file = "veil.gguf"
	}
	report := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		report = append(report, fmt.Sprintf("%s: %s (%s)", candidate.Label, candidate.Path, probe(candidate.Path)))
	}
	return "", fmt.Errorf("model file %s not found. Looked in: %s", file, strings.Join(report, ", "))
}

func probe(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	if info.Mode().IsRegular() {
		return fmt.Sprintf("file, %d bytes", info.Size())
	}
	return "exists, not a file"
}
