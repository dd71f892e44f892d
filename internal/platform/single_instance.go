package platform

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrAlreadyRunning is returned when another agent already holds the lock.
var ErrAlreadyRunning = errors.New("focuspomo agent already running")

const (
	lockPortLow      = 21000
	lockPortHigh     = 38999
	holderDialWindow = 500 * time.Millisecond
)

// InstanceLock keeps a localhost port bound for the lifetime of the agent
// and answers every connection with a greeting naming the lock and the
// holder's pid. A failed bind is only reported as ErrAlreadyRunning when
// the current holder greets back.
type InstanceLock struct {
	listener net.Listener
	address  string
	greeting string
	served   sync.WaitGroup
}

// AcquireInstanceLock binds the port derived from name.
func AcquireInstanceLock(name string) (*InstanceLock, error) {
	address := fmt.Sprintf("127.0.0.1:%d", lockPort(name))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if pid, held := lockHolder(address, name); held {
			return nil, errors.Mark(errors.Newf("instance lock %s held by pid %d", address, pid), ErrAlreadyRunning)
		}
		return nil, errors.Wrapf(err, "bind instance lock %s", address)
	}

	lock := &InstanceLock{
		listener: listener,
		address:  address,
		greeting: greeting(name, os.Getpid()),
	}
	lock.served.Add(1)
	go lock.serve()
	return lock, nil
}

func (lock *InstanceLock) serve() {
	defer lock.served.Done()
	for {
		conn, err := lock.listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(holderDialWindow))
		_, _ = conn.Write([]byte(lock.greeting))
		_ = conn.Close()
	}
}

// Release closes the port and waits for the greeter to stop.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.served.Wait()
	lock.listener = nil
	return err
}

func (lock *InstanceLock) Address() string {
	if lock == nil {
		return ""
	}
	return lock.address
}

// lockHolder reports whether the process bound to address is an agent
// holding the lock for name, and its pid.
func lockHolder(address, name string) (int, bool) {
	conn, err := net.DialTimeout("tcp", address, holderDialWindow)
	if err != nil {
		return 0, false
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetReadDeadline(time.Now().Add(holderDialWindow))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return 0, false
	}
	return parseGreeting(line, name)
}

func greeting(name string, pid int) string {
	return fmt.Sprintf("focuspomo-lock %q %d\n", name, pid)
}

func parseGreeting(line, name string) (int, bool) {
	prefix := fmt.Sprintf("focuspomo-lock %q ", name)
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), prefix)
	if !ok {
		return 0, false
	}
	var pid int
	if _, err := fmt.Sscanf(rest, "%d", &pid); err != nil {
		return 0, false
	}
	return pid, true
}

func lockPort(name string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(name))
	return lockPortLow + int(hash.Sum32()%uint32(lockPortHigh-lockPortLow+1))
}
