package ps

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const cpuSampleWindow = 50 * time.Millisecond

type CPU struct {
	Percent float64 `json:"percent"`
}

type Memory struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
	Human       string  `json:"human"`
}

// Process describes the viewer process itself. Frame backlogs show up
// here first, so RSS is the number to watch.
type Process struct {
	PID        int32   `json:"pid"`
	CPUPercent float64 `json:"cpuPercent"`
	RSS        uint64  `json:"rss"`
	RSSHuman   string  `json:"rssHuman"`
	Threads    int32   `json:"threads"`
}

type Status struct {
	CPU     CPU     `json:"cpu"`
	Memory  Memory  `json:"memory"`
	Process Process `json:"process"`
}

func CPUStatus() (CPU, error) {
	list, err := cpu.Percent(cpuSampleWindow, false)
	if err != nil {
		return CPU{}, err
	}
	if len(list) == 0 {
		return CPU{}, nil
	}

	return CPU{
		Percent: list[0],
	}, nil
}

func MemoryStatus() (Memory, error) {
	memory, err := mem.VirtualMemory()
	if err != nil {
		return Memory{}, err
	}

	return Memory{
		Total:       memory.Total,
		Used:        memory.Used,
		UsedPercent: memory.UsedPercent,
		Human:       humanize.IBytes(memory.Used) + " / " + humanize.IBytes(memory.Total),
	}, nil
}

func ProcessStatus() (Process, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Process{}, err
	}
	res := Process{PID: p.Pid}
	if res.CPUPercent, err = p.CPUPercent(); err != nil {
		return res, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return res, err
	}
	res.RSS = info.RSS
	res.RSSHuman = humanize.IBytes(info.RSS)
	if res.Threads, err = p.NumThreads(); err != nil {
		return res, err
	}

	return res, nil
}

// Snapshot collects system and process status in one call.
func Snapshot() (Status, error) {
	var (
		s   Status
		err error
	)
	if s.CPU, err = CPUStatus(); err != nil {
		return s, err
	}
	if s.Memory, err = MemoryStatus(); err != nil {
		return s, err
	}
	if s.Process, err = ProcessStatus(); err != nil {
		return s, err
	}

	return s, nil
}
