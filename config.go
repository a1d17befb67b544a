package boxmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds editor, export and server settings.
type Config struct {
	Canvas CanvasConfig `json:"canvas"`
	Shapes ShapeConfig  `json:"shapes"`
	Input  InputConfig  `json:"input"`
	Export ExportConfig `json:"export"`
	Colors ColorConfig  `json:"colors"`
	Server ServerConfig `json:"server"`
	Debug  bool         `json:"debug"`
}

// CanvasConfig fixes the logical stage size and zoom step.
type CanvasConfig struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ZoomFactor float64 `json:"zoom_factor"`
}

// ShapeConfig controls rectangle sizing.
type ShapeConfig struct {
	MinSize     float64 `json:"min_size"`
	DefaultSize float64 `json:"default_size"`
}

// InputConfig tunes pointer handling.
type InputConfig struct {
	// DragDeadZone is the screen distance a press must travel on a shape
	// before it becomes a drag instead of a click.
	DragDeadZone float64 `json:"drag_dead_zone"`
	// ResetViewSeconds is the duration of the animated view reset.
	ResetViewSeconds float64 `json:"reset_view_seconds"`
}

// ExportConfig controls JSON and raster exports.
type ExportConfig struct {
	PixelRatio float64 `json:"pixel_ratio"`
	OutputDir  string  `json:"output_dir"`
}

// ColorConfig holds hex colors for shape strokes.
type ColorConfig struct {
	Default   string `json:"default"`
	Alert     string `json:"alert"`
	Highlight string `json:"highlight"`
}

// ServerConfig holds HTTP API settings. Timeouts are in seconds.
type ServerConfig struct {
	Addr         string `json:"addr"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      CanvasWidth,
			Height:     CanvasHeight,
			ZoomFactor: ZoomFactor,
		},
		Shapes: ShapeConfig{
			MinSize:     MinShapeSize,
			DefaultSize: DefaultShapeSize,
		},
		Input: InputConfig{
			DragDeadZone:     defaultDragDeadZone,
			ResetViewSeconds: 0.25,
		},
		Export: ExportConfig{
			PixelRatio: 1,
			OutputDir:  "exports",
		},
		Colors: ColorConfig{
			Default:   "#00AEEF",
			Alert:     "#FF0000",
			Highlight: "#008000",
		},
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
	}
}

// LoadConfig reads a JSON file over the defaults. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("boxmark: read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("boxmark: parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from BOXMARK_* environment variables.
func (c *Config) ApplyEnv() {
	c.Server.Addr = getEnv("BOXMARK_ADDR", c.Server.Addr)
	c.Export.OutputDir = getEnv("BOXMARK_OUTPUT_DIR", c.Export.OutputDir)
	c.Export.PixelRatio = getEnvAsFloat("BOXMARK_PIXEL_RATIO", c.Export.PixelRatio)
	c.Server.ReadTimeout = getEnvAsInt("BOXMARK_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("BOXMARK_WRITE_TIMEOUT", c.Server.WriteTimeout)
	if v := os.Getenv("BOXMARK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Validate checks every setting and reports all invalid ones joined with
// errors.Join; nil means the config is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %vx%v must be positive", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.ZoomFactor <= 1 {
		errs = append(errs, fmt.Errorf("zoom factor %v must be greater than 1", c.Canvas.ZoomFactor))
	}
	if c.Shapes.MinSize <= 0 {
		errs = append(errs, fmt.Errorf("min shape size %v must be positive", c.Shapes.MinSize))
	}
	if c.Shapes.DefaultSize < c.Shapes.MinSize {
		errs = append(errs, fmt.Errorf("default shape size %v is below the minimum %v", c.Shapes.DefaultSize, c.Shapes.MinSize))
	}
	if c.Export.PixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("pixel ratio %v must be positive", c.Export.PixelRatio))
	}
	for name, hex := range map[string]string{
		"default": c.Colors.Default, "alert": c.Colors.Alert, "highlight": c.Colors.Highlight,
	} {
		if _, err := ParseColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("%s color: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("boxmark: invalid config: %w", err)
	}
	return nil
}

// palette resolves the configured colors, falling back to the built-in ones.
func (c Config) palette() (def, alert, highlight Color) {
	def, alert, highlight = ColorDefault, ColorAlert, ColorHighlight
	if v, err := ParseColor(c.Colors.Default); err == nil {
		def = v
	}
	if v, err := ParseColor(c.Colors.Alert); err == nil {
		alert = v
	}
	if v, err := ParseColor(c.Colors.Highlight); err == nil {
		highlight = v
	}
	return
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
