package config

type Option struct {
	LogLevel   string
	ConfigPath string
}

func NewOptions() *Option {
	return &Option{
		LogLevel:   LogLevelInfo,
		ConfigPath: "",
	}
}
