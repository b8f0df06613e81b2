package registry

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type BindingType string

const (
	TypeHTTPTrigger  BindingType = "httpTrigger"
	TypeHTTP         BindingType = "http"
	TypeQueue        BindingType = "queue"
	TypeQueueTrigger BindingType = "queueTrigger"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type Binding struct {
	Name       string      `yaml:"name" json:"name"`
	Type       BindingType `yaml:"type" json:"type"`
	Direction  Direction   `yaml:"direction" json:"direction"`
	AuthLevel  string      `yaml:"authLevel,omitempty" json:"authLevel,omitempty"`
	Methods    []string    `yaml:"methods,omitempty" json:"methods,omitempty"`
	Route      string      `yaml:"route,omitempty" json:"route,omitempty"`
	QueueName  string      `yaml:"queueName,omitempty" json:"queueName,omitempty"`
	Connection string      `yaml:"connection,omitempty" json:"connection,omitempty"`
}

type Function struct {
	Name     string    `yaml:"name"`
	Bindings []Binding `yaml:"bindings"`
}

type FunctionRegistry struct {
	Functions map[string]*Function `yaml:"functions"`
	FilePath  string               `yaml:"-"`
	logger    *logrus.Entry
	mutex     *sync.RWMutex
}

type FunctionRegistryInterface interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	GetFunction(ctx context.Context, name string) (fn *Function, exists bool)
	ListFunctions(ctx context.Context) []*Function
	HTTPRoute(ctx context.Context, route string) (fn *Function, exists bool)
	QueueTriggers(ctx context.Context, queueName string) []*Function
}
