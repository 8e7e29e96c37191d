package domain

import "path/filepath"

// TriggerKind is the condition class of an invalidation subscription.
type TriggerKind uint8

const (
	// TriggerFileUpdated fires when the exact path is updated, replaced or deleted.
	TriggerFileUpdated TriggerKind = iota
	// TriggerFileCreated fires when a file matching Pattern is created directly inside Dir.
	TriggerFileCreated
	// TriggerFileDeleted fires when the exact path is deleted.
	TriggerFileDeleted
	// TriggerEnvChanged fires when the environment variable Key changes.
	TriggerEnvChanged
	// TriggerOptionChanged fires when the configuration slice at Key changes.
	TriggerOptionChanged
	// TriggerAlways fires at startup and on every environment or option change.
	TriggerAlways
)

// String returns the name used in logs and metrics labels.
func (k TriggerKind) String() string {
	switch k {
	case TriggerFileUpdated:
		return "file_updated"
	case TriggerFileCreated:
		return "file_created"
	case TriggerFileDeleted:
		return "file_deleted"
	case TriggerEnvChanged:
		return "env_changed"
	case TriggerOptionChanged:
		return "option_changed"
	case TriggerAlways:
		return "always"
	default:
		return "unknown"
	}
}

// Trigger is one invalidation subscription of a request.
type Trigger struct {
	Kind TriggerKind
	// Path is the file for update/delete triggers and the directory for create triggers.
	Path string
	// Pattern is the base-name pattern for create triggers.
	Pattern string
	// Key is the environment variable name or the option path.
	Key string
}

// OnFileUpdate subscribes to updates of path.
func OnFileUpdate(path string) Trigger {
	return Trigger{Kind: TriggerFileUpdated, Path: filepath.Clean(path)}
}

// OnFileDelete subscribes to the deletion of path.
func OnFileDelete(path string) Trigger {
	return Trigger{Kind: TriggerFileDeleted, Path: filepath.Clean(path)}
}

// OnFileCreate subscribes to files created in dir whose base name matches pattern.
func OnFileCreate(dir, pattern string) Trigger {
	return Trigger{Kind: TriggerFileCreated, Path: filepath.Clean(dir), Pattern: pattern}
}

// OnEnvChange subscribes to changes of the environment variable key.
func OnEnvChange(key string) Trigger {
	return Trigger{Kind: TriggerEnvChanged, Key: key}
}

// OnOptionChange subscribes to changes of the configuration slice at path.
func OnOptionChange(path string) Trigger {
	return Trigger{Kind: TriggerOptionChanged, Key: path}
}

// OnStartup subscribes to every startup and every env or option change.
func OnStartup() Trigger {
	return Trigger{Kind: TriggerAlways}
}

// String renders the trigger for logs and diagnostics.
func (t Trigger) String() string {
	switch t.Kind {
	case TriggerFileUpdated, TriggerFileDeleted:
		return t.Kind.String() + "(" + t.Path + ")"
	case TriggerFileCreated:
		return t.Kind.String() + "(" + filepath.Join(t.Path, t.Pattern) + ")"
	case TriggerEnvChanged, TriggerOptionChanged:
		return t.Kind.String() + "(" + t.Key + ")"
	default:
		return t.Kind.String()
	}
}
