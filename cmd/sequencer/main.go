package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivlev/sequencer/internal/config"
	"github.com/ivlev/sequencer/internal/playback"
	"github.com/ivlev/sequencer/internal/scene"
	"github.com/ivlev/sequencer/internal/sequence"
	"github.com/ivlev/sequencer/internal/sequencer"
	"github.com/ivlev/sequencer/internal/system"
	"github.com/ivlev/sequencer/internal/transform"
)

var buildVersion = "dev"

func main() {
	// Создаем нужные директории, если их нет
	dirs := []string{"input/records", "sequences", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	def := config.Default()

	configPtr := flag.String("config", "sequencer.toml", "Путь к TOML-конфигу (необязательный)")
	envPtr := flag.String("env", ".env", "Путь к .env (необязательный)")
	targetPtr := flag.String("target", def.TargetEntity, "Имя анимируемой сущности (пусто: основная сущность сцены)")
	sourcePtr := flag.String("source", def.DataSource, "Источник ключей: records, timeline")
	recordsPtr := flag.String("records", def.RecordsPath, "YAML с записями (по умолчанию: самый свежий файл в input/records/)")
	timelinePtr := flag.String("timeline", def.SourceTimeline, "ID исходного таймлайна в библиотеке (latest: самый свежий)")
	libraryPtr := flag.String("library", def.LibraryDir, "Папка библиотеки таймлайнов")
	scenePtr := flag.String("scene", def.ScenePath, "YAML сцены (пусто: одна сущность Pawn)")
	namePtr := flag.String("name", def.Name, "Имя сохраняемой последовательности")
	ratePtr := flag.String("rate", def.DisplayRate, "Частота кадров отображения, например 60/1 или 30000/1001")
	ticksPtr := flag.String("ticks", def.TickResolution, "Разрешение тиков (пусто: как частота кадров)")
	lengthPtr := flag.Float64("length", def.SequenceLength, "Длина последовательности в секундах")
	outputPtr := flag.String("output", def.OutputPath, "Путь к документу (если пусто, генерируется автоматически в библиотеке)")
	previewPtr := flag.String("preview", def.PreviewPath, "Путь к PNG-превью кривых (пусто: не создавать)")
	loopPtr := flag.Int("loop", def.LoopCount, "Дополнительные проходы (-1: бесконечно)")
	playRatePtr := flag.Float64("play-rate", def.PlayRate, "Скорость воспроизведения")
	autoPlayPtr := flag.Bool("autoplay", def.AutoPlay, "Воспроизвести сразу после сборки")
	realtimePtr := flag.Bool("realtime", def.Realtime, "Воспроизводить в реальном времени")
	batchPtr := flag.String("batch", def.BatchDir, "Собрать все файлы записей из папки в библиотеку")
	workersPtr := flag.Int("workers", def.Workers, "Потоки для пакетной сборки")
	statsPtr := flag.Bool("stats", def.ShowStats, "Показать отчет о производительности")

	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configPtr); err == nil {
		if err := config.LoadFile(*configPtr, &cfg); err != nil {
			log.Fatalf("[-] Ошибка конфигурации: %v", err)
		}
		fmt.Printf("[*] Загружен конфиг: %s\n", *configPtr)
	}
	if err := config.LoadEnv(&cfg, *envPtr); err != nil {
		log.Fatalf("[-] Ошибка окружения: %v", err)
	}

	// Флаги, заданные явно, важнее окружения и файла
	overrides := map[string]func(){
		"target":    func() { cfg.TargetEntity = *targetPtr },
		"source":    func() { cfg.DataSource = *sourcePtr },
		"records":   func() { cfg.RecordsPath = *recordsPtr },
		"timeline":  func() { cfg.SourceTimeline = *timelinePtr },
		"library":   func() { cfg.LibraryDir = *libraryPtr },
		"scene":     func() { cfg.ScenePath = *scenePtr },
		"name":      func() { cfg.Name = *namePtr },
		"rate":      func() { cfg.DisplayRate = *ratePtr },
		"ticks":     func() { cfg.TickResolution = *ticksPtr },
		"length":    func() { cfg.SequenceLength = *lengthPtr },
		"output":    func() { cfg.OutputPath = *outputPtr },
		"preview":   func() { cfg.PreviewPath = *previewPtr },
		"loop":      func() { cfg.LoopCount = *loopPtr },
		"play-rate": func() { cfg.PlayRate = *playRatePtr },
		"autoplay":  func() { cfg.AutoPlay = *autoPlayPtr },
		"realtime":  func() { cfg.Realtime = *realtimePtr },
		"batch":     func() { cfg.BatchDir = *batchPtr },
		"workers":   func() { cfg.Workers = *workersPtr },
		"stats":     func() { cfg.ShowStats = *statsPtr },
	}
	flag.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})
	cfg.BuildVersion = buildVersion

	if cfg.BatchDir == "" && cfg.DataSource == config.DataSourceRecords && cfg.RecordsPath == "" {
		latest, err := system.FindLatestFile("input/records", ".yaml", ".yml")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите файл записей в input/records/", err)
		}
		cfg.RecordsPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.RecordsPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib := sequence.NewLibrary(cfg.LibraryDir)

	if cfg.BatchDir != "" {
		paths, err := sequencer.BuildBatch(ctx, &cfg, cfg.BatchDir, lib)
		if err != nil {
			log.Fatalf("[-] Ошибка пакетной сборки: %v", err)
		}
		fmt.Printf("[+++] Успех! Собрано последовательностей: %d в %s\n", len(paths), cfg.LibraryDir)
		return
	}

	world, err := loadWorld(cfg.ScenePath)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки сцены: %v", err)
	}

	builder, err := sequencer.NewBuilder(&cfg, lib)
	if err != nil {
		log.Fatalf("[-] Ошибка источника данных: %v", err)
	}

	if cfg.OutputPath == "" {
		cfg.OutputPath = lib.NewPath(cfg.Name)
	}

	factory := sequencer.NewFactory(&cfg, world, world, playback.NewService(world), builder)
	res, err := factory.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	final := res.Entity.Transform()
	fmt.Printf("[*] %s: translation %v rotation %v scale %v\n", res.Entity.Name(), final.Translation, final.Rotation, final.Scale)
	fmt.Printf("[+++] Успех! Последовательность: %s\n", res.DocumentPath)
}

func loadWorld(path string) (*scene.World, error) {
	if path != "" {
		return scene.LoadWorld(path)
	}

	fmt.Println("[*] Сцена не указана, используется Pawn по умолчанию")
	w := scene.NewWorld()
	if err := w.Add(scene.NewActor("Pawn", "Character", transform.Identity())); err != nil {
		return nil, err
	}
	if err := w.SetPrimary("Pawn"); err != nil {
		return nil, err
	}
	return w, nil
}
