package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/TETRIX8/youtubesave/internal/domain"
	"go.uber.org/zap"
)

// CommandRunner executes binary and returns what it wrote to stdout and stderr
type CommandRunner func(ctx context.Context, binary string, args ...string) (stdout, stderr []byte, err error)

// YTDLPExtractor implements domain.Extractor by running the yt-dlp CLI.
// Every invocation is capped to one item: --no-playlist covers a video inside
// a list, --playlist-items 1 covers a bare playlist URL.
type YTDLPExtractor struct {
	config *domain.ExtractorConfig
	logger *zap.Logger

	// Run is replaceable in tests
	Run CommandRunner
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor
func NewYTDLPExtractor(config *domain.ExtractorConfig, logger *zap.Logger) *YTDLPExtractor {
	if config == nil {
		config = &domain.DefaultConfig().Extractor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLPExtractor{
		config: config,
		logger: logger,
		Run:    runCommand,
	}
}

// Name returns the binary the extractor runs
func (e *YTDLPExtractor) Name() string {
	return e.binary()
}

// ExtractInfo dumps the metadata for url without downloading
func (e *YTDLPExtractor) ExtractInfo(ctx context.Context, url string) (*domain.RawInfo, error) {
	args := []string{"--dump-single-json", "--skip-download", "--no-playlist", "--playlist-items", "1", "--no-warnings"}
	out, err := e.run(ctx, "extract info", args, url)
	if err != nil {
		return nil, err
	}
	return decodeInfo("extract info", out)
}

// ExtractAndFetch downloads the selected format into the output template and
// returns the metadata record yt-dlp prints once the download is complete
func (e *YTDLPExtractor) ExtractAndFetch(ctx context.Context, url string, opts domain.FetchOptions) (*domain.RawInfo, error) {
	args := []string{
		"--dump-single-json",
		"--no-simulate",
		"--no-playlist",
		"--playlist-items", "1",
		"--no-warnings",
		"--no-progress",
		"-f", opts.FormatID,
		"-o", opts.OutputTemplate,
	}
	out, err := e.run(ctx, "download", args, url)
	if err != nil {
		return nil, err
	}
	return decodeInfo("download", out)
}

// ExpectedFilename asks yt-dlp which path a download with opts would produce
func (e *YTDLPExtractor) ExpectedFilename(ctx context.Context, url string, opts domain.FetchOptions) (string, error) {
	args := []string{
		"--skip-download",
		"--no-playlist",
		"--playlist-items", "1",
		"--no-warnings",
		"-f", opts.FormatID,
		"-o", opts.OutputTemplate,
		"--print", "filename",
	}
	out, err := e.run(ctx, "prepare filename", args, url)
	if err != nil {
		return "", err
	}

	name := lastLine(string(out))
	if name == "" {
		return "", &domain.ExtractionError{Op: "prepare filename", Message: "yt-dlp printed no filename"}
	}
	return name, nil
}

func (e *YTDLPExtractor) run(ctx context.Context, op string, args []string, url string) ([]byte, error) {
	if e.config.CookieFile != "" && fileExists(e.config.CookieFile) {
		args = append(args, "--cookies", e.config.CookieFile)
	}
	args = append(args, e.config.ExtraArgs...)
	args = append(args, "--", url)

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	binary := e.binary()
	e.logger.Debug("Executing yt-dlp",
		zap.String("op", op),
		zap.String("command", CommandLine(binary, args...)))

	stdout, stderr, err := e.Run(ctx, binary, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		e.logger.Debug("yt-dlp failed",
			zap.String("op", op),
			zap.String("stderr", string(stderr)),
			zap.Error(err))
		return nil, &domain.ExtractionError{
			Op:      op,
			Message: errorMessage(stderr, err),
			Err:     err,
		}
	}
	return stdout, nil
}

func (e *YTDLPExtractor) binary() string {
	if b := strings.TrimSpace(e.config.Binary); b != "" {
		return b
	}
	return "yt-dlp"
}

func decodeInfo(op string, out []byte) (*domain.RawInfo, error) {
	var info domain.RawInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, &domain.ExtractionError{
			Op:      op,
			Message: "failed to parse yt-dlp output: " + err.Error(),
			Err:     err,
		}
	}
	return &info, nil
}

// errorMessage picks the most useful line yt-dlp wrote to stderr: the last
// "ERROR:" line, else the last non-empty line, else the process error
func errorMessage(stderr []byte, err error) string {
	var last, lastError string
	for _, line := range strings.Split(string(stderr), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		last = line
		if strings.HasPrefix(line, "ERROR:") {
			lastError = line
		}
	}

	switch {
	case lastError != "":
		return lastError
	case last != "":
		return last
	case err != nil:
		return err.Error()
	default:
		return "yt-dlp failed"
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func runCommand(ctx context.Context, binary string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LookupBinary reports the resolved path of the configured binary
func (e *YTDLPExtractor) LookupBinary() (string, error) {
	return exec.LookPath(e.binary())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
