package mir

import (
	"fmt"

	"fortio.org/safecast"

	"aetherscript/internal/ast"
	"aetherscript/internal/sema"
	"aetherscript/internal/source"
	"aetherscript/internal/trace"
	"aetherscript/internal/types"
)

// LowerModule converts one analyzed module into MIR, lowering every
// top-level function, every impl-block method, and every lambda discovered
// along the way into its own synthetic `__lambda_<n>` function (§4.4).
func LowerModule(res *sema.ModuleResult) *Program {
	return LowerModuleTraced(res, trace.Nop)
}

// LowerModuleTraced is LowerModule with a phase-boundary span emitted
// around the whole lowering pass, named like the module/analyze pass
// spans so a CLI wiring all three phases through one tracer gets a
// coherent timeline.
func LowerModuleTraced(res *sema.ModuleResult, tracer trace.Tracer) *Program {
	if tracer == nil {
		tracer = trace.Nop
	}
	name := ""
	if res != nil && res.Module != nil {
		name = res.Module.Name
	}
	span := trace.Begin(tracer, trace.ScopePass, "lower", 0)
	defer func() { span.End(name) }()

	prog := &Program{Funcs: make(map[FuncID]*Func), FuncByName: make(map[string]FuncID)}
	if res == nil {
		return prog
	}

	// Dispatch entries record each impl method's receiver TypeID keyed by
	// the same namespaced symbol under which its FunctionSig was stored
	// (§4.3 step 6), which spares MIR from re-resolving Self itself.
	receiverOf := make(map[string]types.TypeID, len(res.Dispatch))
	for key, entry := range res.Dispatch {
		receiverOf[entry.Symbol] = key.Receiver
	}

	l := &lowerer{
		prog:      prog,
		res:       res,
		in:        res.Interner,
		checker:   types.NewChecker(res.Interner, res.Defs, res.Module.Name),
		nextFuncID: new(FuncID),
		lambdaSeq:  new(int),
	}

	for _, fn := range res.Module.FunctionDefinitions {
		sig, ok := res.Functions[fn.Name]
		if !ok || fn.Body == nil {
			continue
		}
		l.lowerTopLevel(fn, fn.Name, types.NoTypeID, sig)
	}

	for _, impl := range res.Module.ImplBlocks {
		for _, m := range impl.Methods {
			symbolName := receiverTypeName(impl.ForType) + "::" + m.Name
			if impl.Trait != nil {
				symbolName = impl.Trait.Name + "::" + m.Name
			}
			sig, ok := res.Functions[symbolName]
			if !ok || m.Body == nil {
				continue
			}
			l.lowerTopLevel(m, symbolName, receiverOf[symbolName], sig)
		}
	}

	return prog
}

// receiverTypeName mirrors sema.receiverTypeName's naming so the MIR
// function table agrees with res.Functions/res.Dispatch's symbol keys.
func receiverTypeName(ts *ast.TypeSyntax) string {
	if ts == nil {
		return "<error>"
	}
	if ts.Kind == ast.TypeSyntaxNamed {
		return ts.Name
	}
	return "<anon>"
}

// lowerer carries the state of one function's lowering plus the module-wide
// counters shared by every function it may spawn (lambdas).
type lowerer struct {
	prog    *Program
	res     *sema.ModuleResult
	in      *types.Interner
	checker *types.Checker

	nextFuncID *FuncID
	lambdaSeq  *int

	f           *Func
	currentFn   *ast.Function
	cur         BlockID
	localByName map[string]LocalID
	nextTemp    int

	loopStack []loopCtx

	inPostcondition bool // gates ExprIdent "return_value" -> f.ReturnLocal
}

type loopCtx struct {
	breakTarget    BlockID
	continueTarget BlockID
	label          string
}

func (l *lowerer) allocFuncID() FuncID {
	id := *l.nextFuncID
	*l.nextFuncID++
	return id
}

func (l *lowerer) isVoid(t types.TypeID) bool {
	if t == types.NoTypeID {
		return true
	}
	tt := l.in.Get(t)
	return tt.Kind == types.KindPrimitive && tt.Primitive == types.PrimVoid
}

// lowerTopLevel lowers one top-level function or impl method into a fresh
// Func and registers it in the Program under name (§4.4.1).
func (l *lowerer) lowerTopLevel(fn *ast.Function, name string, selfType types.TypeID, sig *sema.FunctionSig) *Func {
	return l.lowerFunc(fn, name, selfType, sig)
}

func (l *lowerer) lowerFunc(fn *ast.Function, name string, selfType types.TypeID, sig *sema.FunctionSig) *Func {
	id := l.allocFuncID()
	f := &Func{ID: id, Name: name, Span: fn.Span, Result: sig.Return, ReturnLocal: NoLocalID}

	prevF, prevFn, prevCur, prevLocals, prevTemp, prevLoop, prevPost :=
		l.f, l.currentFn, l.cur, l.localByName, l.nextTemp, l.loopStack, l.inPostcondition
	l.f = f
	l.currentFn = fn
	l.localByName = make(map[string]LocalID)
	l.nextTemp = 0
	l.loopStack = nil
	l.inPostcondition = false
	defer func() {
		l.f, l.currentFn, l.cur, l.localByName, l.nextTemp, l.loopStack, l.inPostcondition =
			prevF, prevFn, prevCur, prevLocals, prevTemp, prevLoop, prevPost
	}()

	paramIdx := 0
	for i, p := range fn.Params {
		if i == 0 && p.Name == "self" && selfType != types.NoTypeID {
			l.newLocal("self", selfType, p.Span)
			continue
		}
		pt := types.NoTypeID
		if paramIdx < len(sig.Params) {
			pt = sig.Params[paramIdx]
		}
		paramIdx++
		l.newLocal(p.Name, pt, p.Span)
	}
	f.ParamCount = len(fn.Params)

	if !l.isVoid(sig.Return) {
		f.ReturnLocal = l.newLocal("__return", sig.Return, fn.Span)
	}

	entry := l.newBlock()
	f.Entry = entry
	l.startBlock(entry)
	for i := 0; i < f.ParamCount; i++ {
		l.emit(Stmt{Kind: StmtStorageLive, StorageLive: StorageLiveStmt{Local: LocalID(i)}})
	}

	l.lowerPreconditions(fn)

	if fn.Body != nil {
		l.lowerBlock(fn.Body)
	}

	if !l.curBlock().Terminated() {
		l.setTerm(Terminator{Kind: TermUnreachable})
	}
	// §4.4.1: "If the last block still has an Unreachable terminator on
	// finish, it is replaced with Return."
	if last := len(f.Blocks) - 1; last >= 0 && f.Blocks[last].Term.Kind == TermUnreachable {
		f.Blocks[last].Term = Terminator{Kind: TermReturn, Return: l.implicitReturn()}
	}

	l.prog.Funcs[id] = f
	l.prog.FuncByName[name] = id
	return f
}

func (l *lowerer) implicitReturn() ReturnTerm {
	if l.f.ReturnLocal == NoLocalID {
		return ReturnTerm{}
	}
	return ReturnTerm{HasValue: true, Value: Operand{Kind: OperandCopy, Type: l.f.Result, Place: Place{Local: l.f.ReturnLocal}}}
}

func (l *lowerer) curBlock() *Block {
	if l.f == nil || int(l.cur) < 0 || int(l.cur) >= len(l.f.Blocks) {
		return nil
	}
	return &l.f.Blocks[l.cur]
}

func (l *lowerer) newBlock() BlockID {
	raw, err := safecast.Conv[int32](len(l.f.Blocks))
	if err != nil {
		panic(fmt.Errorf("mir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	l.f.Blocks = append(l.f.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	return id
}

func (l *lowerer) startBlock(id BlockID) {
	l.cur = id
}

func (l *lowerer) setTerm(t Terminator) {
	b := l.curBlock()
	if b == nil || b.Terminated() {
		return
	}
	b.Term = t
}

func (l *lowerer) emit(s Stmt) {
	b := l.curBlock()
	if b == nil || b.Terminated() {
		return
	}
	b.Stmts = append(b.Stmts, s)
}

func (l *lowerer) newLocal(name string, t types.TypeID, span source.Span) LocalID {
	raw, err := safecast.Conv[int32](len(l.f.Locals))
	if err != nil {
		panic(fmt.Errorf("mir: local id overflow: %w", err))
	}
	id := LocalID(raw)
	l.f.Locals = append(l.f.Locals, Local{ID: id, Type: t, Name: name, Span: span})
	if name != "" {
		l.localByName[name] = id
	}
	return id
}

func (l *lowerer) newTemp(t types.TypeID, hint string) LocalID {
	l.nextTemp++
	return l.newLocal(fmt.Sprintf("__%s%d", hint, l.nextTemp), t, source.Span{})
}

// materialize ensures op's value is addressable as a bare local (no
// projections, not a constant), creating a temporary and assigning into it
// if necessary.
func (l *lowerer) materialize(op Operand) LocalID {
	if op.Kind != OperandConstant && len(op.Place.Proj) == 0 && op.Place.Local != NoLocalID {
		return op.Place.Local
	}
	tmp := l.newTemp(op.Type, "val")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{Kind: RvalueUse, Use: op}}})
	return tmp
}

// asOperand reads place's current value as a Copy operand of type t.
func asOperand(place Place, t types.TypeID) Operand {
	return Operand{Kind: OperandCopy, Type: t, Place: place}
}
