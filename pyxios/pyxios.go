// Package pyxios exposes the goxios motif engine as the "_pyxios" gpython
// module, letting catalog builds and structure analyses be scripted in
// Python.
package pyxios

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-python/gpython/py"

	"github.com/xios-systems/goxios"
	"github.com/xios-systems/goxios/libxios"
	"github.com/xios-systems/goxios/libxios/catalog"
)

var (
	LIB_VERSION = "v1.2023.1"
)

var (
	pyXiosType        = py.NewType("Xios", "a typed stem graph of an RNA secondary structure")
	pyMotifStreamType = py.NewType("MotifStream", "libxios.MotifStream")
	pyCatalogType     = py.NewType("Catalog", "goxios.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects active session resources and catalogs")
)

type pyXios struct {
	*libxios.Xios
}

func (X pyXios) Type() *py.Type {
	return pyXiosType
}

func (X pyXios) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteAsString(&writer, goxios.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (X pyXios) M__repr__() (py.Object, error) {
	return X.M__str__()
}

// Arg 1 (str, optional): graph expression, e.g. "0i1.1o2."
func py_NewXios(module py.Object, args py.Tuple) (py.Object, error) {
	X := libxios.NewXios(nil)
	if len(args) > 0 {
		expr, ok := args[0].(py.String)
		if !ok {
			return nil, py.ExceptionNewf(py.TypeError, "expected graph expression string")
		}
		if err := X.InitFromString(string(expr)); err != nil {
			X.Reclaim()
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
	}
	return py.Object(pyXios{X}), nil
}

// Arg 1 (str): dot-bracket structure, e.g. "((.[[.))..]]"
// Arg 2 (int, optional): max unpaired bases bridged within a stem
func py_XiosFromVienna(module py.Object, args py.Tuple) (py.Object, error) {
	var structure string
	var maxUnpaired int32 = 2
	if len(args) > 1 {
		if err := py.LoadTuple(args, []interface{}{&structure, &maxUnpaired}); err != nil {
			return nil, err
		}
	} else if err := py.LoadTuple(args, []interface{}{&structure}); err != nil {
		return nil, err
	}

	stems, err := libxios.StemsFromVienna(structure, maxUnpaired)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}

	X := libxios.NewXios(nil)
	if err := X.InitFromStems(stems, libxios.StemOpts{OmitSerial: true}); err != nil {
		X.Reclaim()
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Object(pyXios{X}), nil
}

func py_Xios_NumStems(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyXios)
	return py.Object(py.Int(X.NumStems())), nil
}

func py_Xios_NumParts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyXios)
	return py.Object(py.Int(X.NumParts())), nil
}

func py_Xios_MinDFS(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyXios)
	code := libxios.MinDFSOf(X.Xios)
	return py.String(code.Ascii()), nil
}

func py_Xios_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyXios)
	next := libxios.StreamXios(X.Xios)
	return wrapMotifStream(next), nil
}

// Arg 1 (int): min stem count
// Arg 2 (int): max stem count
func py_EnumMotifs(module py.Object, args py.Tuple) (py.Object, error) {
	var minStems, maxStems int32
	err := py.LoadTuple(args, []interface{}{&minStems, &maxStems})
	if err != nil {
		return nil, err
	}

	stream := libxios.EnumMotifs(minStems, maxStems, libxios.StemOpts{OmitSerial: true})
	return wrapMotifStream(stream), nil
}

const (
	READ_ONLY     = 0x01
	TRACK_PARENTS = 0x02

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx goxios.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: goxios.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := goxios.CatalogOpts{
		DbPathName:   pathname,
		ReadOnly:     (flags & READ_ONLY) != 0,
		TrackParents: (flags & TRACK_PARENTS) != 0,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	pyCat := pyCatalog{cat}
	return py.Object(pyCat), nil
}

type pyCatalog struct {
	goxios.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := goxios.SelectAll
	if len(args) > 0 {
		if err := getMotifSelector(args[0], &sel); err != nil {
			return nil, err
		}
	}

	next := libxios.SelectFromCatalog(cat, sel)
	return wrapMotifStream(next), nil
}

func py_Catalog_NumMotifs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	stemCount := py.Int(0)
	if len(args) > 0 {
		var err error
		if stemCount, err = py.GetInt(args[0]); err != nil {
			return nil, err
		}
	}

	numMotifs := cat.NumMotifs(int32(stemCount))
	return py.Int(numMotifs), nil
}

// Arg 1 (str): ascii canonical code of the child motif
func py_Catalog_Parents(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	var codeStr string
	if err := py.LoadTuple(args, []interface{}{&codeStr}); err != nil {
		return nil, err
	}
	code, err := goxios.ParseAscii(codeStr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}

	parents := cat.Parents(code)
	out := make(py.Tuple, len(parents))
	for i, parent := range parents {
		out[i] = py.String(parent.Ascii())
	}
	return out, nil
}

func py_MotifStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(motifStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	var (
		n   int
		err error
	)
	if echo.to == nil {
		n, err = echo.stdout.Write(buf)
	} else {
		n, err = echo.to.Write(buf)
	}
	return n, err
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

func py_MotifStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(motifStream)
	var pathname string

	opts := goxios.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", gOutCount)
	}

	py.LoadAttr(kwargs, "graph", &opts.Graph)
	py.LoadAttr(kwargs, "code", &opts.CodeStr)
	py.LoadAttr(kwargs, "hex", &opts.Hex)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(string(pathname), os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapMotifStream(next), nil
}

type motifStream struct {
	*libxios.MotifStream
}

func (stream motifStream) Type() *py.Type {
	return pyMotifStreamType
}

func wrapMotifStream(stream *libxios.MotifStream) py.Object {
	return py.Object(motifStream{stream})
}

func py_MotifStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(motifStream)
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object")
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", errors.New("catalog is in read-only mode"))
	}

	next := stream.AddTo(cat, libxios.AddMotifOpts{})
	return wrapMotifStream(next), nil
}

func py_MotifStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(motifStream)
	next := stream.DropDupes()
	return wrapMotifStream(next), nil
}

func py_MotifStream_Canonize(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(motifStream)
	next := stream.Canonize()
	return wrapMotifStream(next), nil
}

func py_MotifStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	sel := goxios.SelectAll
	if err := getMotifSelector(args[0], &sel); err != nil {
		return nil, err
	}
	stream := self.(motifStream)
	next := stream.SelectFromStream(sel)
	return wrapMotifStream(next), nil
}

func init() {

	/////////////////////////////////
	// Xios
	{
		pyXiosType.Dict["NumStems"] = py.MustNewMethod("NumStems", py_Xios_NumStems, 0, "")
		pyXiosType.Dict["NumParts"] = py.MustNewMethod("NumParts", py_Xios_NumParts, 0, "")
		pyXiosType.Dict["MinDFS"] = py.MustNewMethod("MinDFS", py_Xios_MinDFS, 0, "returns the canonical code in ascii chain form")
		pyXiosType.Dict["Stream"] = py.MustNewMethod("Stream", py_Xios_Stream, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["NumMotifs"] = py.MustNewMethod("NumMotifs", py_Catalog_NumMotifs, 0, "")
		pyCatalogType.Dict["Parents"] = py.MustNewMethod("Parents", py_Catalog_Parents, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// MotifStream
	{
		pyMotifStreamType.Dict["Go"] = py.MustNewMethod("Go", py_MotifStream_Go, 0, "counts the number of motifs output from the MotifStream")
		pyMotifStreamType.Dict["Print"] = py.MustNewMethod("Print", py_MotifStream_Print, 0, "prints each motif from the MotifStream")
		pyMotifStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_MotifStream_AddTo, 0, "")
		pyMotifStreamType.Dict["Canonize"] = py.MustNewMethod("Canonize", py_MotifStream_Canonize, 0, "")
		pyMotifStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_MotifStream_DropDupes, 0, "")
		pyMotifStreamType.Dict["Select"] = py.MustNewMethod("Select", py_MotifStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewXios", py_NewXios, 0, ""),
			py.MustNewMethod("XiosFromVienna", py_XiosFromVienna, 0, ""),
			py.MustNewMethod("EnumMotifs", py_EnumMotifs, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_STEMS":   py.Int(goxios.MaxStems),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pyxios",
				Doc:  "RNA topology motif engine gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}

func intAttr(obj py.Object, key string, min, max int64) int64 {
	attr, err := py.GetAttrString(obj, key)
	if err != nil {
		panic(err)
	}
	val, _ := py.GetInt(attr)
	intVal := int64(val)
	if intVal < min {
		intVal = min
	}
	if intVal > max {
		intVal = max
	}
	return intVal
}

func getMotifSelector(selObj py.Object, sel *goxios.MotifSelector) error {
	sel.MinStems = int32(intAttr(selObj, "min_stems", 1, goxios.MaxStems))
	sel.MaxStems = int32(intAttr(selObj, "max_stems", 1, goxios.MaxStems))
	return nil
}
