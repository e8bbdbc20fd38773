//go:build cgo && (linux || darwin || freebsd)

package engine

/*
#include "spice.h"
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"
)

// The engine invokes these trampolines on its own threads for the
// lifetime of the process. Each one recovers panics; a Go fault must
// never unwind into the native caller.

func dropPanic(origin string) {
	if r := recover(); r != nil {
		Logger().Error("callback panic suppressed",
			zap.String("callback", origin),
			zap.Any("panic", r))
	}
}

//export spiceSendChar
func spiceSendChar(line *C.char, ident C.int, user unsafe.Pointer) C.int {
	defer dropPanic("char")
	if cb := pinned.Load(); cb != nil && cb.OnChar != nil {
		cb.OnChar(C.GoString(line))
	}
	return 0
}

//export spiceSendStat
func spiceSendStat(line *C.char, ident C.int, user unsafe.Pointer) C.int {
	defer dropPanic("stat")
	if cb := pinned.Load(); cb != nil && cb.OnStat != nil {
		cb.OnStat(C.GoString(line))
	}
	return 0
}

//export spiceControlledExit
func spiceControlledExit(status C.int, unload C.NG_BOOL, quit C.NG_BOOL, ident C.int, user unsafe.Pointer) C.int {
	defer dropPanic("exit")
	if cb := pinned.Load(); cb != nil && cb.OnExit != nil {
		cb.OnExit(int(status), bool(unload), bool(quit))
	}
	return 0
}

//export spiceSendData
func spiceSendData(vals C.pvecvaluesall, count C.int, ident C.int, user unsafe.Pointer) C.int {
	defer dropPanic("data")
	if cb := pinned.Load(); cb != nil && cb.OnData != nil {
		cb.OnData(stepValuesFromC(vals))
	}
	return 0
}

//export spiceSendInitData
func spiceSendInitData(info C.pvecinfoall, ident C.int, user unsafe.Pointer) C.int {
	defer dropPanic("init-data")
	if cb := pinned.Load(); cb != nil && cb.OnInitData != nil {
		cb.OnInitData(plotInfoFromC(info))
	}
	return 0
}

//export spiceBGThreadRunning
func spiceBGThreadRunning(noruns C.NG_BOOL, ident C.int, user unsafe.Pointer) C.int {
	defer dropPanic("bg")
	if cb := pinned.Load(); cb != nil && cb.OnBGRunning != nil {
		// The engine reports the inverse: true means no background run.
		cb.OnBGRunning(!bool(noruns))
	}
	return 0
}

// stepValuesFromC copies one data-point payload out of engine memory.
func stepValuesFromC(all C.pvecvaluesall) StepValues {
	var out StepValues
	if all == nil {
		return out
	}
	out.Index = int(all.vecindex)
	n := int(all.veccount)
	if n <= 0 || all.vecsa == nil {
		return out
	}
	out.Values = make([]StepValue, 0, n)
	for _, pv := range unsafe.Slice(all.vecsa, n) {
		if pv == nil {
			continue
		}
		out.Values = append(out.Values, StepValue{
			Name:      C.GoString(pv.name),
			Real:      float64(pv.creal),
			Imag:      float64(pv.cimag),
			IsScale:   bool(pv.is_scale),
			IsComplex: bool(pv.is_complex),
		})
	}
	return out
}

// plotInfoFromC copies an analysis-start payload out of engine memory.
func plotInfoFromC(info C.pvecinfoall) PlotInfo {
	var out PlotInfo
	if info == nil {
		return out
	}
	out.Name = C.GoString(info.name)
	out.Title = C.GoString(info.title)
	out.Date = C.GoString(info.date)
	out.Type = C.GoString(info._type)
	n := int(info.veccount)
	if n <= 0 || info.vecs == nil {
		return out
	}
	out.Vectors = make([]VectorMeta, 0, n)
	for _, pv := range unsafe.Slice(info.vecs, n) {
		if pv == nil {
			continue
		}
		out.Vectors = append(out.Vectors, VectorMeta{
			Number: int(pv.number),
			Name:   C.GoString(pv.vecname),
			IsReal: bool(pv.is_real),
		})
	}
	return out
}
