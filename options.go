package seqio

import "go.uber.org/zap"

// readerConfig holds the knobs every format-specific reader constructor
// accepts through ReaderOption.
type readerConfig struct {
	initialCap int
	policy     GrowthPolicy
	multiLine  bool // only consulted by NewFASTQReader and NewFASTXReader
	logger     *zap.SugaredLogger
}

func defaultReaderConfig() readerConfig {
	return readerConfig{
		initialCap: DefaultInitialCapacity,
		policy:     NewDoublingPolicy(),
		logger:     zap.NewNop().Sugar(),
	}
}

// ReaderOption configures a reader at construction time.
type ReaderOption func(*readerConfig)

// WithInitialCapacity sets the buffer's starting capacity.
func WithInitialCapacity(n int) ReaderOption {
	return func(c *readerConfig) { c.initialCap = n }
}

// WithGrowthPolicy installs a custom growth strategy, e.g. to drive a
// tight cap in tests or to switch to DoubleUntilLinearPolicy.
func WithGrowthPolicy(p GrowthPolicy) ReaderOption {
	return func(c *readerConfig) { c.policy = p }
}

// WithMultiLine switches NewFASTQReader to the multi-line FASTQ variant,
// where sequence and quality may each span several lines. It has no
// effect on NewFASTAReader.
func WithMultiLine() ReaderOption {
	return func(c *readerConfig) { c.multiLine = true }
}

// WithLogger attaches a logger that receives Debug-level events for buffer
// growth and compaction. The default is a no-op logger.
func WithLogger(l *zap.Logger) ReaderOption {
	return func(c *readerConfig) { c.logger = l.Sugar() }
}

func applyOptions(opts []ReaderOption) readerConfig {
	cfg := defaultReaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
