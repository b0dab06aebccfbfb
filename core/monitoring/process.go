package monitoring

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/denisbrodbeck/machineid"
	"github.com/shirou/gopsutil/v4/process"
)

// ProcessContext describes the running process. It is attached to every
// event as baseline tags.
type ProcessContext struct {
	GoVersion  string
	AppVersion string
	AppContext string
	PID        int
	Inode      string
	UID        string
	GID        string
	User       string
	MachineID  string
}

// CollectProcessContext gathers the process context. Lookups that fail leave
// their field empty; collection itself never fails.
func CollectProcessContext(appName, appVersion, appContext string) ProcessContext {
	pc := ProcessContext{
		GoVersion:  runtime.Version(),
		AppVersion: appVersion,
		AppContext: appContext,
		PID:        os.Getpid(),
		Inode:      executableInode(),
	}
	if p, err := process.NewProcess(int32(pc.PID)); err == nil {
		if uids, err := p.Uids(); err == nil && len(uids) > 0 {
			pc.UID = fmt.Sprintf("%d", uids[0])
		}
		if gids, err := p.Gids(); err == nil && len(gids) > 0 {
			pc.GID = fmt.Sprintf("%d", gids[0])
		}
		if u, err := p.Username(); err == nil {
			pc.User = u
		}
	}
	if appName != "" {
		if id, err := machineid.ProtectedID(appName); err == nil {
			pc.MachineID = id
		}
	}
	return pc
}

// Tags renders the context as event tags. Empty values are omitted.
func (pc ProcessContext) Tags() map[string]string {
	tags := map[string]string{
		"go_version":    pc.GoVersion,
		"app_version":   pc.AppVersion,
		"app_context":   pc.AppContext,
		"process_inode": pc.Inode,
		"process_uid":   pc.UID,
		"process_gid":   pc.GID,
		"process_user":  pc.User,
		"machine_id":    pc.MachineID,
	}
	if pc.PID > 0 {
		tags["process_pid"] = strconv.Itoa(pc.PID)
	}
	for k, v := range tags {
		if v == "" {
			delete(tags, k)
		}
	}
	return tags
}
