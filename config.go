package quack

import (
	"errors"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-playground/validator/v10"

	"github.com/hugr-lab/quack/interp"
)

// DefaultFunctionName is the name the table function is registered under
// when Config.FunctionName is empty.
const DefaultFunctionName = "quack"

// DefaultCallTimeout bounds one version lookup when Config.CallTimeout is zero.
const DefaultCallTimeout = 5 * time.Second

// Config contains configuration for registering the table function.
type Config struct {
	// FunctionName is the SQL name of the table function.
	// OPTIONAL: Defaults to DefaultFunctionName.
	// MUST be an identifier: a letter or underscore followed by letters,
	// digits or underscores, at most 63 characters.
	FunctionName string `validate:"required,max=63,identifier"`

	// Runtime is the embedded interpreter the version is read from.
	// OPTIONAL: If nil, uses the process-wide runtime (interp.Process()).
	// Rows degrade to a fallback message while that runtime is not initialized.
	Runtime interp.Runtime `validate:"-"`

	// CallTimeout bounds each version lookup, waiting for the interpreter
	// lock included. A lookup that runs out of time yields the fallback row
	// and aborts the guest call.
	// OPTIONAL: Defaults to DefaultCallTimeout. MUST NOT be negative.
	CallTimeout time.Duration `validate:"gte=0"`

	// Allocator for parameter buffers.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator `validate:"-"`

	// Logger for internal logging.
	// OPTIONAL: Uses a text logger on stderr if nil.
	// If Logger is provided, LogLevel is ignored.
	Logger *slog.Logger `validate:"-"`

	// LogLevel sets the logging level of the default logger.
	// OPTIONAL: If nil, uses Info level.
	LogLevel *slog.Level `validate:"-"`
}

// Standard errors returned by the quack package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrRegistration indicates the host rejected the table function.
	ErrRegistration = errors.New("failed to register table function")
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validate is shared; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// withDefaults fills optional fields.
func (c Config) withDefaults() Config {
	if c.FunctionName == "" {
		c.FunctionName = DefaultFunctionName
	}
	if c.Runtime == nil {
		c.Runtime = interp.Process()
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.Allocator == nil {
		c.Allocator = memory.DefaultAllocator
	}
	if c.Logger == nil {
		level := slog.LevelInfo
		if c.LogLevel != nil {
			level = *c.LogLevel
		}
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return c
}

// validateConfig checks that Config fields are valid.
func validateConfig(c Config) error {
	return validate.Struct(c)
}
