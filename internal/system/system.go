package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of the current process.
type Stats struct {
	RSS        uint64
	CPUPercent float64
	Threads    int32
	Goroutines int
}

func (s Stats) RSSMegabytes() float64 {
	return float64(s.RSS) / (1024 * 1024)
}

// Collect samples memory and CPU usage of this process. Fields that could
// not be read are left zero and the first error is returned.
func Collect() (Stats, error) {
	stats := Stats{Goroutines: runtime.NumGoroutine()}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats, err
	}

	var firstErr error
	if mem, err := p.MemoryInfo(); err == nil {
		stats.RSS = mem.RSS
	} else {
		firstErr = err
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	} else if firstErr == nil {
		firstErr = err
	}
	if threads, err := p.NumThreads(); err == nil {
		stats.Threads = threads
	} else if firstErr == nil {
		firstErr = err
	}
	return stats, firstErr
}

// AppendLog appends line to the file at path, creating it if needed.
func AppendLog(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FindLatestFile returns the most recently modified file in dir whose
// extension is one of exts (case-insensitive).
func FindLatestFile(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		matched := false
		for _, ext := range exts {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				matched = true
				break
			}
		}
		if matched {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(dir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}
