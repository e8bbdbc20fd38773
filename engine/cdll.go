//go:build cgo && (linux || darwin || freebsd)

package engine

/*
#cgo linux LDFLAGS: -ldl
#include <stdlib.h>
#include <dlfcn.h>
#include "spice.h"

static void *spice_dlopen(const char *path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}

static const char *spice_dlerror(void) {
	const char *msg = dlerror();
	return msg ? msg : "";
}

typedef int (*fn_init)(SendChar *, SendStat *, ControlledExit *, SendData *,
	SendInitData *, BGThreadRunning *, void *);
typedef int (*fn_command)(char *);
typedef char *(*fn_curplot)(void);
typedef char **(*fn_allplots)(void);
typedef char **(*fn_allvecs)(char *);
typedef pvector_info (*fn_vecinfo)(char *);
typedef int (*fn_circ)(char **);

static int spice_init(void *fn) {
	return ((fn_init)fn)(spiceSendChar, spiceSendStat, spiceControlledExit,
		spiceSendData, spiceSendInitData, spiceBGThreadRunning, NULL);
}

static int spice_command(void *fn, char *cmd) { return ((fn_command)fn)(cmd); }
static char *spice_curplot(void *fn) { return ((fn_curplot)fn)(); }
static char **spice_allplots(void *fn) { return ((fn_allplots)fn)(); }
static char **spice_allvecs(void *fn, char *plot) { return ((fn_allvecs)fn)(plot); }
static pvector_info spice_vecinfo(void *fn, char *name) { return ((fn_vecinfo)fn)(name); }
static int spice_circ(void *fn, char **lines) { return ((fn_circ)fn)(lines); }
*/
import "C"

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/spicelab/spice-runtime/errors"
)

// The engine initializes once per process and keeps raw pointers to the
// registered trampolines, so attachment state is package-global. pinned
// is never cleared: the engine may still call in while shutting down.
var (
	openMu   sync.Mutex
	attached bool
	consumed bool
	pinned   atomic.Pointer[Callbacks]
)

type library struct {
	handle    unsafe.Pointer
	pCommand  unsafe.Pointer
	pCurPlot  unsafe.Pointer
	pAllPlots unsafe.Pointer
	pAllVecs  unsafe.Pointer
	pVecInfo  unsafe.Pointer
	pCirc     unsafe.Pointer
	closed    atomic.Bool
}

// Open loads the engine shared library, resolves its exported interface
// and registers cb with it. An empty path tries LibraryCandidates in
// order. Only one attachment may exist per process, and the engine
// cannot be re-initialized once released.
func Open(path string, cb *Callbacks) (SharedSpice, error) {
	openMu.Lock()
	defer openMu.Unlock()

	if attached {
		return nil, errors.Conflict("engine already attached in this process")
	}
	if consumed {
		return nil, errors.Conflict("engine cannot be re-initialized after detach")
	}

	candidates := []string{path}
	if path == "" {
		candidates = LibraryCandidates()
	}

	var handle unsafe.Pointer
	var lastDlerror string
	for _, cand := range candidates {
		cpath := C.CString(cand)
		h := C.spice_dlopen(cpath)
		C.free(unsafe.Pointer(cpath))
		if h != nil {
			handle = h
			debugf("engine: loaded %s", cand)
			break
		}
		lastDlerror = C.GoString(C.spice_dlerror())
	}
	if handle == nil {
		name := path
		if name == "" {
			name = strings.Join(candidates, ", ")
		}
		var cause error
		if lastDlerror != "" {
			cause = fmt.Errorf("%s", lastDlerror)
		}
		return nil, errors.LibraryNotFound(name, cause)
	}

	lib := &library{handle: handle}
	pInit, err := lib.symbol("ngSpice_Init")
	if err != nil {
		return nil, err
	}
	for _, s := range []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{"ngSpice_Command", &lib.pCommand},
		{"ngSpice_CurPlot", &lib.pCurPlot},
		{"ngSpice_AllPlots", &lib.pAllPlots},
		{"ngSpice_AllVecs", &lib.pAllVecs},
		{"ngGet_Vec_Info", &lib.pVecInfo},
		{"ngSpice_Circ", &lib.pCirc},
	} {
		p, err := lib.symbol(s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = p
	}

	if cb == nil {
		cb = &Callbacks{}
	}
	pinned.Store(cb)

	if st := int(C.spice_init(pInit)); st != 0 {
		return nil, errors.New(errors.PhaseOpen, errors.KindEngineRejected).
			Detail("engine init returned status %d", st).
			Value(st).
			Build()
	}
	attached = true
	consumed = true
	return lib, nil
}

func (l *library) symbol(name string) (unsafe.Pointer, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	C.spice_dlerror() // clear any stale loader error
	p := C.dlsym(l.handle, cname)
	if p == nil {
		var cause error
		if msg := C.GoString(C.spice_dlerror()); msg != "" {
			cause = fmt.Errorf("%s", msg)
		}
		return nil, errors.SymbolMissing(name, cause)
	}
	return p, nil
}

func (l *library) Command(cmd string) (int, error) {
	if l.closed.Load() {
		return 0, errors.Detached("command")
	}
	ccmd := C.CString(cmd)
	defer C.free(unsafe.Pointer(ccmd))
	return int(C.spice_command(l.pCommand, ccmd)), nil
}

func (l *library) Circuit(lines []string) (int, error) {
	if l.closed.Load() {
		return 0, errors.Detached("circuit load")
	}

	// char** with an explicit NULL in the final slot, allocated on the C
	// heap so the engine never sees Go pointers.
	n := len(lines)
	argv := (**C.char)(C.calloc(C.size_t(n+1), C.size_t(unsafe.Sizeof((*C.char)(nil)))))
	if argv == nil {
		return 0, errors.Internal(errors.PhaseDispatch, "circuit array allocation failed")
	}
	slots := unsafe.Slice(argv, n+1)
	for i, line := range lines {
		slots[i] = C.CString(line)
	}
	slots[n] = nil

	st := int(C.spice_circ(l.pCirc, argv))

	for i := 0; i < n; i++ {
		C.free(unsafe.Pointer(slots[i]))
	}
	C.free(unsafe.Pointer(argv))
	return st, nil
}

func (l *library) CurrentPlot() (string, error) {
	if l.closed.Load() {
		return "", errors.Detached("current plot")
	}
	p := C.spice_curplot(l.pCurPlot)
	if p == nil {
		return "", nil
	}
	return C.GoString(p), nil
}

func (l *library) AllPlots() ([]string, error) {
	if l.closed.Load() {
		return nil, errors.Detached("plot listing")
	}
	return goStringArray(C.spice_allplots(l.pAllPlots)), nil
}

func (l *library) AllVecs(plot string) ([]string, error) {
	if l.closed.Load() {
		return nil, errors.Detached("vector listing")
	}
	cplot := C.CString(plot)
	defer C.free(unsafe.Pointer(cplot))
	return goStringArray(C.spice_allvecs(l.pAllVecs, cplot)), nil
}

func (l *library) VecInfo(name string) (*RawVector, error) {
	if l.closed.Load() {
		return nil, errors.Detached("vector query")
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	vi := C.spice_vecinfo(l.pVecInfo, cname)
	if vi == nil {
		return nil, errors.NotFound(errors.PhaseQuery, "vector", name)
	}

	rv := &RawVector{
		Name:   C.GoString(vi.v_name),
		Type:   VecType(vi.v_type),
		Flags:  VecFlags(vi.v_flags),
		Length: int(vi.v_length),
	}
	n := int(vi.v_length)
	if n > 0 && vi.v_realdata != nil {
		rv.Real = unsafe.Slice((*float64)(unsafe.Pointer(vi.v_realdata)), n)
	}
	if n > 0 && vi.v_compdata != nil {
		cdata := unsafe.Slice(vi.v_compdata, n)
		rv.Comp = make([]complex128, n)
		for i, c := range cdata {
			rv.Comp[i] = complex(float64(c.cx_real), float64(c.cx_imag))
		}
	}
	return rv, nil
}

// Close releases the attachment. The shared library stays loaded: the
// engine spawns internal threads and keeps pointers to the registered
// trampolines, so unloading is only safe when the process exits.
func (l *library) Close() error {
	openMu.Lock()
	defer openMu.Unlock()
	if l.closed.Swap(true) {
		return nil
	}
	attached = false
	return nil
}

// goStringArray walks a NULL-terminated char** into Go strings.
func goStringArray(arr **C.char) []string {
	if arr == nil {
		return nil
	}
	var out []string
	step := unsafe.Sizeof((*C.char)(nil))
	for p := arr; *p != nil; p = (**C.char)(unsafe.Add(unsafe.Pointer(p), step)) {
		out = append(out, C.GoString(*p))
	}
	return out
}
