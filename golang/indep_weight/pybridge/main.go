// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"io"
	"log"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/tarstars/independent_weight/golang/indep_weight/iwl"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	results           = make(map[uint64]*iwl.Result)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeResult(r *iwl.Result) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	results[handle] = r
	nextHandle++
	return handle
}

func fetchResult(handle uint64) (*iwl.Result, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	result, ok := results[handle]
	if !ok {
		return nil, errors.New("invalid result handle")
	}
	return result, nil
}

//export FreeResult
func FreeResult(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(results, uint64(handle))
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

//export SearchIndependentWeight
func SearchIndependentWeight(
	probsPtr *C.double,
	length C.int,
	epsilon C.double,
	threadsNum C.int,
	skipDegenerate C.int,
) C.ulonglong {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		log.SetOutput(io.Discard)
	})

	values, err := copyFloatSlice(probsPtr, int(length))
	if err != nil {
		setLastError(err)
		return 0
	}
	p, err := iwl.NewDistribution(values)
	if err != nil {
		setLastError(err)
		return 0
	}

	result, err := iwl.Search(p, iwl.SearchParams{
		Epsilon:        float64(epsilon),
		ThreadsNum:     int(threadsNum),
		SkipDegenerate: skipDegenerate != 0,
	})
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeResult(&result))
}

//export GetWeight
func GetWeight(handle C.ulonglong) C.double {
	setLastError(nil)
	result, err := fetchResult(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	return C.double(result.Weight)
}

//export GetMaximizerCount
func GetMaximizerCount(handle C.ulonglong) C.int {
	setLastError(nil)
	result, err := fetchResult(uint64(handle))
	if err != nil {
		setLastError(err)
		return -1
	}
	return C.int(len(result.Maximizers))
}

//export GetMaximizer
func GetMaximizer(handle C.ulonglong, index C.int, outputPtr *C.double) C.int {
	setLastError(nil)
	result, err := fetchResult(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if int(index) < 0 || int(index) >= len(result.Maximizers) {
		setLastError(errors.Errorf("maximizer index %d out of range [0, %d)", int(index), len(result.Maximizers)))
		return 2
	}

	outSlice, err := sliceFromPtr(outputPtr, result.Dimension)
	if err != nil {
		setLastError(err)
		return 3
	}
	copy(outSlice, result.Maximizers[int(index)])
	return 0
}

//export IndependentWeight
func IndependentWeight(probsPtr *C.double, length C.int, outParamsPtr *C.double, outWeightPtr *C.double) C.int {
	setLastError(nil)
	values, err := copyFloatSlice(probsPtr, int(length))
	if err != nil {
		setLastError(err)
		return 1
	}

	weight, params, err := iwl.IndependentWeight(values)
	if err != nil {
		setLastError(err)
		return 2
	}

	if outWeightPtr == nil {
		setLastError(errors.New("null pointer for the weight"))
		return 3
	}
	*outWeightPtr = C.double(weight)

	outSlice, err := sliceFromPtr(outParamsPtr, len(params))
	if err != nil {
		setLastError(err)
		return 4
	}
	copy(outSlice, params)
	return 0
}

//export SaveResult
func SaveResult(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	result, err := fetchResult(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if err = result.Save(C.GoString(path)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export RenderSearch
func RenderSearch(handle C.ulonglong, prefix, figureType, directory *C.char) C.int {
	setLastError(nil)
	result, err := fetchResult(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goPrefix := C.GoString(prefix)
	goFigureType := C.GoString(figureType)
	goDir := C.GoString(directory)
	if goPrefix == "" {
		goPrefix = "search"
	}
	if goFigureType == "" {
		goFigureType = "svg"
	}
	if goDir == "" {
		goDir = "."
	}
	if err = result.RenderSearch(goPrefix, goFigureType, goDir); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
