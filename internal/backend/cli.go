package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"faviconkit/internal/catalog"
	"faviconkit/internal/logging"
)

var dimensionsPattern = regexp.MustCompile(`(\d+)x(\d+)`)

// CommandLine shells out to ImageMagick, one process per output file.
// Arguments are passed as a vector; no shell is involved.
type CommandLine struct {
	tool    string
	timeout time.Duration
	logger  *logging.Logger
}

func NewCommandLine(opts Options) *CommandLine {
	tool := strings.TrimSpace(opts.ToolPath)
	if tool == "" {
		tool = DefaultToolPath
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandLine{tool: tool, timeout: timeout, logger: opts.Logger}
}

func (c *CommandLine) Name() string {
	return MethodCLI
}

func (c *CommandLine) Tool() string {
	return c.tool
}

func (c *CommandLine) Available(ctx context.Context, format catalog.Format) error {
	resolved, err := exec.LookPath(c.tool)
	if err != nil {
		return fmt.Errorf("%w: %s not found: %w", ErrBackendUnavailable, c.tool, err)
	}
	out, err := c.run(ctx, "-version")
	if err != nil {
		return fmt.Errorf("%w: %s -version: %w", ErrBackendUnavailable, resolved, err)
	}
	c.logger.Debug("image tool available",
		logging.Field("tool", resolved),
		logging.Field("version", firstLine(string(out))),
	)
	if !delegateSupported(string(out), format) {
		return fmt.Errorf("%w: %s was built without the %s delegate", ErrEncoderUnsupported, resolved, format)
	}
	return nil
}

func (c *CommandLine) Prepare(ctx context.Context, sourcePath string) (*Prepared, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, sourcePath, err)
	}
	out, err := c.run(ctx, abs+"[0]", "-format", "%wx%h", "info:")
	if err != nil {
		return nil, fmt.Errorf("%w: identify %s: %w", ErrDecodeFailed, sourcePath, err)
	}
	width, height, ok := parseDimensions(string(out))
	if !ok {
		return nil, fmt.Errorf("%w: could not determine dimensions of %s from %q", ErrDecodeFailed, sourcePath, logging.Truncate(string(out)))
	}
	crop := SquareCrop(width, height)
	c.logger.Debug("normalized source image",
		logging.Field("source", abs),
		logging.Field("size", fmt.Sprintf("%dx%d", width, height)),
		logging.Field("crop", crop.String()),
	)
	return &Prepared{Source: abs, Width: width, Height: height, Crop: crop}, nil
}

func (c *CommandLine) Resize(ctx context.Context, prepared *Prepared, dim int, enc Encoding) ([]byte, error) {
	if prepared == nil {
		return nil, fmt.Errorf("%w: image was not prepared", ErrEncodeFailed)
	}
	if err := checkDimension(prepared, dim); err != nil {
		return nil, err
	}
	out, err := c.run(ctx, ResizeArgs(prepared, dim, enc)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %dx%d: %w", ErrEncodeFailed, enc.Format, dim, dim, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s produced no output for %dx%d", ErrEncodeFailed, c.tool, dim, dim)
	}
	return out, nil
}

// ResizeArgs builds the ImageMagick argument vector that crops the prepared square,
// resizes it to dim x dim and streams the encoded result to stdout.
func ResizeArgs(prepared *Prepared, dim int, enc Encoding) []string {
	crop := prepared.Crop
	size := fmt.Sprintf("%dx%d", dim, dim)
	args := []string{
		prepared.Source + "[0]",
		"-crop", fmt.Sprintf("%dx%d+%d+%d", crop.Dx(), crop.Dy(), crop.Min.X, crop.Min.Y),
		"+repage",
		"-background", "none",
		"-resize", size + "!",
		"-strip",
	}
	switch enc.Format {
	case catalog.WebP:
		args = append(args,
			"-quality", strconv.Itoa(enc.Quality),
			"-define", "webp:lossless=false",
			"-define", "webp:method=6",
		)
	case catalog.PNG:
		args = append(args, "-define", "png:color-type=6")
	}
	return append(args, string(enc.Format)+":-")
}

func (c *CommandLine) run(ctx context.Context, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.tool, args...)
	// Children that inherit stdout must not keep Wait blocked past the deadline.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running image tool", logging.Field("tool", c.tool), logging.Field("args", strings.Join(args, " ")))
	err := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%s timed out after %s", c.tool, c.timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", c.tool, err, logging.Truncate(msg))
		}
		return nil, fmt.Errorf("%s: %w", c.tool, err)
	}
	return stdout.Bytes(), nil
}

func parseDimensions(out string) (int, int, bool) {
	match := dimensionsPattern.FindStringSubmatch(out)
	if match == nil {
		return 0, 0, false
	}
	width, errW := strconv.Atoi(match[1])
	height, errH := strconv.Atoi(match[2])
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// delegateSupported inspects the "Delegates" line of -version output. Tools that do
// not print one are assumed capable.
func delegateSupported(versionOutput string, format catalog.Format) bool {
	if format != catalog.WebP {
		return true
	}
	for _, line := range strings.Split(versionOutput, "\n") {
		name, list, ok := strings.Cut(line, ":")
		if !ok || !strings.HasPrefix(strings.TrimSpace(name), "Delegates") {
			continue
		}
		for _, delegate := range strings.Fields(list) {
			if strings.EqualFold(delegate, "webp") {
				return true
			}
		}
		return false
	}
	return true
}

func firstLine(value string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(value), "\n")
	return strings.TrimSpace(line)
}
