package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"gopkg.in/yaml.v3"

	"github.com/clipforge/video-highlights/internal/handlers"
	"github.com/clipforge/video-highlights/internal/jobs"
	"github.com/clipforge/video-highlights/internal/media"
	"github.com/clipforge/video-highlights/internal/pipeline"
	"github.com/clipforge/video-highlights/internal/source"
	"github.com/clipforge/video-highlights/internal/storage"
	"github.com/clipforge/video-highlights/internal/transcription"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Downloader struct {
		YtDlpPath   string `yaml:"ytdlp_path"`
		FFmpegPath  string `yaml:"ffmpeg_path"`
		FFprobePath string `yaml:"ffprobe_path"`
		CookiesFile string `yaml:"cookies_file"`
	} `yaml:"downloader"`

	SpeechToText struct {
		APIKey   string `yaml:"api_key"`
		Model    string `yaml:"model"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"speech_to_text"`

	Jobs struct {
		WorkDir       string `yaml:"work_dir"`
		TTLMinutes    int    `yaml:"ttl_minutes"`
		ReapMinutes   int    `yaml:"reap_interval_minutes"`
		MaxConcurrent int    `yaml:"max_concurrent"`
	} `yaml:"jobs"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`
}

func main() {
	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(config.Jobs.WorkDir, 0755); err != nil {
		log.Fatalf("Failed to create work directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	log.Println("Initializing components...")

	downloader := source.NewDownloader(config.Downloader.YtDlpPath, config.Downloader.CookiesFile)
	engine := media.NewEngine(config.Downloader.FFmpegPath, config.Downloader.FFprobePath)
	stt := transcription.NewClient(
		config.SpeechToText.APIKey,
		config.SpeechToText.Model,
		config.SpeechToText.Endpoint,
	)
	if stt.Configured() {
		log.Println("Speech-to-text fallback enabled")
	} else {
		log.Println("No speech-to-text credential - relying on platform captions only")
	}

	// Google Drive uploader (optional - may fail if credentials not set up)
	var uploader pipeline.Uploader
	if _, err := os.Stat(config.GoogleDrive.CredentialsFile); err == nil {
		driveUploader, err := storage.NewDriveUploader(
			config.GoogleDrive.CredentialsFile,
			config.GoogleDrive.TokenFile,
			config.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Archives will only be kept locally")
		} else {
			log.Println("Google Drive integration enabled")
			uploader = driveUploader
		}
	} else {
		log.Println("Google Drive credentials not found - keeping archives locally only")
	}

	registry := jobs.NewRegistry()
	orchestrator := pipeline.New(registry, downloader, downloader, stt, engine, uploader,
		config.Jobs.MaxConcurrent)

	reaper := jobs.NewReaper(registry,
		time.Duration(config.Jobs.TTLMinutes)*time.Minute,
		time.Duration(config.Jobs.ReapMinutes)*time.Minute,
	)
	reaper.Start()
	defer reaper.Stop()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	jobHandler := handlers.NewJobHandler(registry, orchestrator, config.Jobs.WorkDir)
	progressHandler := handlers.NewProgressHandler(registry)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
			"jobs":    registry.Len(),
		})
	})

	app.Post("/jobs", jobHandler.Submit)
	app.Get("/jobs/:id", jobHandler.Status)
	app.Get("/jobs/:id/download", jobHandler.Download)

	// WebSocket route
	app.Get("/ws/jobs/:id", websocket.New(progressHandler.Handle))

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /jobs              - Submit a video for clipping")
	log.Println("   GET  /jobs/:id          - Poll job status")
	log.Println("   GET  /jobs/:id/download - Download the clip archive")
	log.Println("   GET  /ws/jobs/:id       - Stream job progress")
	log.Println("   GET  /logs              - View server logs")
	log.Println("   GET  /health            - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Jobs.WorkDir == "" {
		config.Jobs.WorkDir = "work"
	}
	if config.Jobs.TTLMinutes == 0 {
		config.Jobs.TTLMinutes = 60
	}
	if config.Jobs.ReapMinutes == 0 {
		config.Jobs.ReapMinutes = 10
	}
}
