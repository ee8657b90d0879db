package database

var cmdTable = make(map[string]*command)

// 每个命令都是一个command结构体，里面有一个命令的实现方法
type command struct {
	executor ExecFunc
	arity    int // allowed number of args, arity < 0 means len(args) >= -arity
}

// RegisterCommand registers a new command
// arity means allowed number of cmdArgs, arity < 0 means len(args) >= -arity.
// dispatch is case-sensitive, so names are registered exactly as clients
// must send them
func RegisterCommand(name string, executor ExecFunc, arity int) {
	cmdTable[name] = &command{
		executor: executor,
		arity:    arity,
	}
}
