package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"pyedit/internal/apperr"
)

// DefaultInterpreter используется, если интерпретатор не задан.
const DefaultInterpreter = "python"

// tempPattern шаблон имени временного файла; "*" заменяет os.CreateTemp.
const tempPattern = "python_code*.py"

const maxLineSize = 4 * 1024 * 1024

// pipeGrace сколько пайпы остаются открытыми после отмены. Дочерние процессы
// интерпретатора наследуют их и держат открытыми после его завершения.
const pipeGrace = time.Second

// Kind какой поток содержит Result.
type Kind int

const (
	Output Kind = iota
	Errors
)

func (k Kind) String() string {
	if k == Errors {
		return "Errors"
	}
	return "Output"
}

// Result итог запуска для пользователя.
type Result struct {
	Kind     Kind
	Text     string
	ExitCode int
	Duration time.Duration
}

// Title возвращает заголовок диалога для результата.
func (r *Result) Title() string {
	return "Python " + r.Kind.String()
}

// Runner выполняет буфер внешним интерпретатором.
type Runner struct {
	interpreter string
	timeout     time.Duration
	tempDir     string
	log         zerolog.Logger
}

// Option настраивает Runner.
type Option func(*Runner)

// WithTimeout завершает интерпретатор через d. Ноль отключает ограничение.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithTempDir кладёт временные файлы в dir вместо os.TempDir().
func WithTempDir(dir string) Option {
	return func(r *Runner) { r.tempDir = dir }
}

// WithLogger задаёт логгер для диагностики.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New создаёт Runner для команды интерпретатора.
func New(interpreter string, opts ...Option) *Runner {
	if strings.TrimSpace(interpreter) == "" {
		interpreter = DefaultInterpreter
	}
	r := &Runner{
		interpreter: interpreter,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interpreter возвращает имя команды.
func (r *Runner) Interpreter() string {
	return r.interpreter
}

// CheckAvailable проверяет, что интерпретатор находится в PATH.
func (r *Runner) CheckAvailable() error {
	if _, err := exec.LookPath(r.interpreter); err != nil {
		return apperr.New(apperr.ProcessSpawn, "lookup", r.interpreter, err)
	}
	return nil
}

// Run пишет code во временный файл, запускает на нём интерпретатор и читает
// оба потока. Непустой stderr важнее stdout. Временный файл удаляется до
// возврата из Run при любом исходе.
func (r *Runner) Run(ctx context.Context, code string) (*Result, error) {
	start := time.Now()

	path, err := r.writeArtifact(code)
	if err != nil {
		return nil, err
	}
	defer r.removeArtifact(path)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.interpreter, path)
	cmd.WaitDelay = pipeGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperr.New(apperr.ProcessSpawn, "stdout pipe", r.interpreter, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, apperr.New(apperr.ProcessSpawn, "stderr pipe", r.interpreter, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, apperr.New(apperr.ProcessSpawn, "start", r.interpreter, err)
	}
	r.log.Debug().Str("interpreter", r.interpreter).Str("artifact", path).Int("pid", cmd.Process.Pid).Msg("run started")

	stopGuard := context.AfterFunc(ctx, func() {
		time.Sleep(pipeGrace)
		stdout.Close()
		stderr.Close()
	})
	defer stopGuard()

	// Оба потока читаются до Wait, иначе Wait закроет пайпы раньше времени.
	var (
		output, errs    strings.Builder
		outErr, errsErr error
		wg              conc.WaitGroup
	)
	wg.Go(func() { outErr = drainLines(stdout, &output) })
	wg.Go(func() { errsErr = drainLines(stderr, &errs) })
	wg.Wait()

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		r.log.Info().Err(ctxErr).Dur("duration", duration).Msg("run interrupted")
		return nil, ctxErr
	}
	if outErr != nil {
		return nil, apperr.New(apperr.StreamRead, "read stdout", r.interpreter, outErr)
	}
	if errsErr != nil {
		return nil, apperr.New(apperr.StreamRead, "read stderr", r.interpreter, errsErr)
	}

	exitCode := 0
	if waitErr != nil {
		var ee *exec.ExitError
		if !errors.As(waitErr, &ee) {
			return nil, apperr.New(apperr.StreamRead, "wait", r.interpreter, waitErr)
		}
		exitCode = ee.ExitCode()
	}

	res := &Result{Kind: Output, Text: output.String(), ExitCode: exitCode, Duration: duration}
	if errs.Len() > 0 {
		res.Kind = Errors
		res.Text = errs.String()
	}
	r.log.Info().
		Str("kind", res.Kind.String()).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("run finished")
	return res, nil
}

func (r *Runner) writeArtifact(code string) (string, error) {
	tmp, err := os.CreateTemp(r.tempDir, tempPattern)
	if err != nil {
		return "", apperr.New(apperr.ProcessSpawn, "create temp file", r.tempDir, err)
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		r.removeArtifact(path)
		return "", apperr.New(apperr.ProcessSpawn, "write temp file", path, err)
	}
	if err := tmp.Close(); err != nil {
		r.removeArtifact(path)
		return "", apperr.New(apperr.ProcessSpawn, "close temp file", path, err)
	}
	return path, nil
}

func (r *Runner) removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.log.Debug().Err(err).Str("artifact", path).Msg("temp file not removed")
	}
}

// drainLines копирует rd в sb построчно, завершая каждую строку "\n".
func drainLines(rd io.Reader, sb *strings.Builder) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		// дочитываем остаток, чтобы процесс не завис на полном пайпе
		_, _ = io.Copy(io.Discard, rd)
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}
