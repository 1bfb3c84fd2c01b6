package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Include:         BoolPtr(false),
		Color:           nil, // detected from the terminal
		Output:          "",
		Compressed:      BoolPtr(false),
		FollowRedirects: BoolPtr(false),
		MaxRedirects:    IntPtr(DefaultMaxRedirects),
		Insecure:        BoolPtr(false),
		Proxy:           "",
		Timeout:         30000, // 30 seconds
		Delay:           0,
		Headers:         nil,
		ContinueOnError: BoolPtr(false),
		Verbose:         BoolPtr(false),
	}
}
