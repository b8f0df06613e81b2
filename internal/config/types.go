package config

import "time"

type Gateway struct {
	Port        string `mapstructure:"port" yaml:"port"`
	RoutePrefix string `mapstructure:"routePrefix" yaml:"routePrefix"`
}

type Worker struct {
	Port       string `mapstructure:"port" yaml:"port"`
	Executable string `mapstructure:"executable" yaml:"executable"`
}

// Queue names the queue shared by the HttpExample output binding and the
// QueueExample trigger.
type Queue struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Capacity   int    `mapstructure:"capacity" yaml:"capacity"`
	Connection string `mapstructure:"connection" yaml:"connection"`
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint"`
}

type Invoke struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Health struct {
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Registry struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type Config struct {
	Host     string   `mapstructure:"host" yaml:"host"`
	Gateway  Gateway  `mapstructure:"gateway" yaml:"gateway"`
	Worker   Worker   `mapstructure:"worker" yaml:"worker"`
	Queue    Queue    `mapstructure:"queue" yaml:"queue"`
	Invoke   Invoke   `mapstructure:"invoke" yaml:"invoke"`
	Health   Health   `mapstructure:"health" yaml:"health"`
	Log      Log      `mapstructure:"log" yaml:"log"`
	Registry Registry `mapstructure:"registry" yaml:"registry"`
}
