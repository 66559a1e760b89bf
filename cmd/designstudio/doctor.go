package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-designstudio/internal/config"
	"github.com/alnah/go-designstudio/internal/surface"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	Studio   studioInfo `json:"studio"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// studioInfo holds configuration and model checks.
type studioInfo struct {
	Config    string `json:"config,omitempty"`
	Store     string `json:"store"`
	DataDir   string `json:"data_dir"`
	APIKeySet bool   `json:"api_key_set"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	DataWritable bool `json:"data_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := hasFlag(args, "--json")

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result)
	checkStudio(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath, found := surface.LookPath()
	if !found {
		result.Errors = append(result.Errors,
			"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
		return
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	cmd := exec.Command(chromePath, "--version") // #nosec G204 -- browser path from rod or ROD_BROWSER_BIN
	out, err := cmd.Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("DESIGNSTUDIO_CONTAINER") == "1" {
		return true, "DESIGNSTUDIO_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkStudio verifies the config file and model credentials.
func checkStudio(result *doctorResult) {
	cfg := config.DefaultConfig()
	if path := os.Getenv("DESIGNSTUDIO_CONFIG"); path != "" {
		result.Studio.Config = path
		loaded, err := config.LoadConfig(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Config %s: %v", path, err))
		} else {
			cfg = loaded
		}
	}
	applyEnvConfig(loadEnvConfig(), cfg)
	result.Studio.Store = cfg.Catalog.Store
	result.Studio.DataDir = config.DataDir()

	result.Studio.APIKeySet = os.Getenv("OPENAI_API_KEY") != ""
	if !result.Studio.APIKeySet {
		result.Warnings = append(result.Warnings,
			"OPENAI_API_KEY not set. 'generate' and the generate endpoint are disabled")
	}
	if cfg.Catalog.Store == config.StoreRedis && cfg.Catalog.RedisAddr == "" {
		result.Warnings = append(result.Warnings,
			"Redis catalog without an address. Set catalog.redisAddr or DESIGNSTUDIO_REDIS_ADDR")
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	if writable(tmpDir) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, dirPermissions); err == nil && writable(dataDir) {
		result.System.DataWritable = true
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Data directory not writable: %s. Use catalog.store memory or set catalog paths", dataDir))
	}
}

// writable reports whether a file can be created in dir.
func writable(dir string) bool {
	testFile := filepath.Join(dir, "designstudio-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return false
	}
	_ = os.Remove(testFile)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "designstudio doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Studio")
	if r.Studio.Config != "" {
		fmt.Fprintf(w, "  [OK] Config: %s\n", r.Studio.Config)
	}
	fmt.Fprintf(w, "  [OK] Catalog store: %s\n", r.Studio.Store)
	if r.Studio.APIKeySet {
		fmt.Fprintln(w, "  [OK] OPENAI_API_KEY: set")
	} else {
		fmt.Fprintln(w, "  [WARN] OPENAI_API_KEY: not set")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.DataWritable {
		fmt.Fprintf(w, "  [OK] Data directory: %s\n", r.Studio.DataDir)
	} else {
		fmt.Fprintf(w, "  [WARN] Data directory: %s not writable\n", r.Studio.DataDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
