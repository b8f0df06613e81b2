package registry

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nyambati/funclet/internal/config"
	funcleterrors "github.com/nyambati/funclet/internal/errors"
	"github.com/nyambati/funclet/internal/functions"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func NewRegistry(path string, queue config.Queue, logger *logrus.Entry) FunctionRegistryInterface {
	r := &FunctionRegistry{
		Functions: make(map[string]*Function),
		FilePath:  path,
		logger:    logger.WithField("component", "registry"),
		mutex:     &sync.RWMutex{},
	}
	for _, fn := range DefaultFunctions(queue) {
		r.Functions[fn.Name] = fn
	}
	return r
}

// DefaultFunctions describes the bindings of the built-in functions. The
// output queue of HttpExample and the trigger queue of QueueExample are the
// same configured queue.
func DefaultFunctions(queue config.Queue) []*Function {
	return []*Function{
		{
			Name: functions.HTTPExampleName,
			Bindings: []Binding{
				{
					Name:      functions.RequestBinding,
					Type:      TypeHTTPTrigger,
					Direction: DirectionIn,
					AuthLevel: "anonymous",
					Methods:   []string{"get", "post"},
					Route:     functions.HTTPExampleName,
				},
				{
					Name:      functions.ResponseBinding,
					Type:      TypeHTTP,
					Direction: DirectionOut,
				},
				{
					Name:       functions.OutputQueueBinding,
					Type:       TypeQueue,
					Direction:  DirectionOut,
					QueueName:  queue.Name,
					Connection: queue.Connection,
				},
			},
		},
		{
			Name: functions.QueueExampleName,
			Bindings: []Binding{
				{
					Name:       functions.QueueInputBinding,
					Type:       TypeQueueTrigger,
					Direction:  DirectionIn,
					QueueName:  queue.Name,
					Connection: queue.Connection,
				},
			},
		},
	}
}

// Load merges definitions from the registry file over the defaults. A
// missing file leaves the defaults in place.
func (r *FunctionRegistry) Load(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	logger := r.logger.WithField("path", r.FilePath)
	logger.Info("loading registry from file")

	file, err := os.Open(r.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("registry file not found, using default functions")
			return nil
		}
		return funcleterrors.NewRegistryLoadError(err.Error())
	}

	defer file.Close()

	temp := &FunctionRegistry{}
	if err := yaml.NewDecoder(file).Decode(temp); err != nil {
		return funcleterrors.NewRegistryLoadError(err.Error())
	}

	for name, fn := range temp.Functions {
		if fn == nil {
			continue
		}
		if fn.Name == "" {
			fn.Name = name
		}
		r.Functions[fn.Name] = fn
	}

	logger.WithField("functions", len(temp.Functions)).Info("loaded registry from file")
	return nil
}

func (r *FunctionRegistry) Save(ctx context.Context) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	r.logger.WithField("path", r.FilePath).Info("saving registry to file")

	if dir := filepath.Dir(r.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return funcleterrors.NewRegistrySaveError(err.Error())
		}
	}

	file, err := os.Create(r.FilePath)
	if err != nil {
		return funcleterrors.NewRegistrySaveError(err.Error())
	}

	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)

	defer encoder.Close()

	if err := encoder.Encode(r); err != nil {
		return funcleterrors.NewRegistrySaveError(err.Error())
	}

	r.logger.Info("saved registry to file")
	return nil
}

func (r *FunctionRegistry) GetFunction(ctx context.Context, name string) (*Function, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if fn, exists := r.Functions[name]; exists {
		return fn, true
	}
	r.logger.Warn(funcleterrors.NewFunctionNotFoundError(name).Error())
	return nil, false
}

func (r *FunctionRegistry) ListFunctions(ctx context.Context) []*Function {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	fns := make([]*Function, 0, len(r.Functions))
	for _, fn := range r.Functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

// HTTPRoute returns the httpTrigger function serving route. Routes compare
// case-insensitively, ignoring surrounding slashes.
func (r *FunctionRegistry) HTTPRoute(ctx context.Context, route string) (*Function, bool) {
	route = strings.Trim(route, "/")
	for _, fn := range r.ListFunctions(ctx) {
		if fnRoute := fn.Route(); fnRoute != "" && strings.EqualFold(fnRoute, route) {
			return fn, true
		}
	}
	return nil, false
}

// QueueTriggers returns the functions triggered by messages on queueName.
func (r *FunctionRegistry) QueueTriggers(ctx context.Context, queueName string) []*Function {
	var triggered []*Function
	for _, fn := range r.ListFunctions(ctx) {
		if trigger := fn.Trigger(); trigger != nil && trigger.Type == TypeQueueTrigger && trigger.QueueName == queueName {
			triggered = append(triggered, fn)
		}
	}
	return triggered
}

// Trigger returns the function's single input trigger binding.
func (f *Function) Trigger() *Binding {
	for i := range f.Bindings {
		b := &f.Bindings[i]
		if b.Direction == DirectionIn && (b.Type == TypeHTTPTrigger || b.Type == TypeQueueTrigger) {
			return b
		}
	}
	return nil
}

// Outputs returns the output bindings of the given type.
func (f *Function) Outputs(kind BindingType) []Binding {
	var outputs []Binding
	for _, b := range f.Bindings {
		if b.Direction == DirectionOut && b.Type == kind {
			outputs = append(outputs, b)
		}
	}
	return outputs
}

// Route is the HTTP route of an httpTrigger function, defaulting to its name.
func (f *Function) Route() string {
	trigger := f.Trigger()
	if trigger == nil || trigger.Type != TypeHTTPTrigger {
		return ""
	}
	if trigger.Route != "" {
		return strings.Trim(trigger.Route, "/")
	}
	return f.Name
}

// Methods lists the upper-cased HTTP methods of an httpTrigger function. An
// empty list in the definition means GET and POST.
func (f *Function) Methods() []string {
	trigger := f.Trigger()
	if trigger == nil || trigger.Type != TypeHTTPTrigger {
		return nil
	}
	if len(trigger.Methods) == 0 {
		return []string{http.MethodGet, http.MethodPost}
	}
	methods := make([]string, 0, len(trigger.Methods))
	for _, m := range trigger.Methods {
		methods = append(methods, strings.ToUpper(m))
	}
	return methods
}
