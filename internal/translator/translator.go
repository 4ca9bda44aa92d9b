// Package translator renders a checked syntax tree as a structured English
// prose description of the programme, using British conventions.
package translator

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/c2en/c2en/internal/compiler/ast"
)

// callDescriptions maps C standard library function names to the prose
// used in place of a literal call description.  Calls whose description
// depends on their arguments (printf, strlen) are handled separately.
var callDescriptions = map[string]string{
	"scanf":   "read input from the user",
	"strcpy":  "copy one text string to another",
	"malloc":  "allocate memory dynamically",
	"free":    "release previously allocated memory",
	"strcmp":  "compare two text strings",
	"strncmp": "compare a specified number of characters in two text strings",
	"strcat":  "concatenate two text strings",
	"strncpy": "copy a specified number of characters from one text string to another",
	"sprintf": "format text and store it in a string",
	"fprintf": "write formatted output to a file",
	"fscanf":  "read formatted input from a file",
	"fopen":   "open a file",
	"fclose":  "close an open file",
	"fread":   "read data from a file",
	"fwrite":  "write data to a file",
	"fgets":   "read a line of text from a file",
	"fputs":   "write a line of text to a file",
	"feof":    "check if end of file has been reached",
	"fseek":   "move the file position indicator",
	"ftell":   "get the current file position",
	"rewind":  "reset the file position to the beginning",
	"calloc":  "allocate and initialise memory to zero",
	"realloc": "resize previously allocated memory",
	"memcpy":  "copy a block of memory",
	"memset":  "fill a block of memory with a specified value",
	"memcmp":  "compare two blocks of memory",
	"atoi":    "convert text to an integer",
	"atof":    "convert text to a floating-point number",
	"atol":    "convert text to a long integer",
	"itoa":    "convert an integer to text",
	"abs":     "calculate the absolute value",
	"sqrt":    "calculate the square root",
	"pow":     "raise a number to a power",
	"sin":     "calculate the sine",
	"cos":     "calculate the cosine",
	"tan":     "calculate the tangent",
	"log":     "calculate the natural logarithm",
	"exp":     "calculate the exponential",
	"ceil":    "round up to the nearest integer",
	"floor":   "round down to the nearest integer",
	"rand":    "generate a pseudo-random number",
	"srand":   "seed the random number generator",
	"time":    "get the current time",
	"exit":    "terminate the programme",
	"assert":  "verify a condition and abort if false",
	"getchar": "read a character from standard input",
	"putchar": "write a character to standard output",
	"puts":    "write a string to standard output",
	"gets":    "read a string from standard input",
	"isalpha": "check if a character is alphabetic",
	"isdigit": "check if a character is a digit",
	"isspace": "check if a character is whitespace",
	"toupper": "convert a character to uppercase",
	"tolower": "convert a character to lowercase",
	"qsort":   "sort an array using quicksort",
	"bsearch": "search a sorted array using binary search",
}

// translator accumulates the prose for one programme.  Prose generation
// needs ordered, clause-shaped recursion rather than a uniform tree walk,
// so it recurses explicitly instead of using ast.Walk.
type translator struct {
	output strings.Builder
	indent int
}

// Translate renders the programme description for a tree that has passed
// semantic analysis.
func Translate(node ast.Node) (string, error) {
	prog, ok := node.(*ast.Program)
	if !ok {
		return "", errors.Errorf("cannot translate %T, expecting a whole programme", node)
	}

	t := &translator{}
	t.appendLine("Programme Description")
	t.appendLine("=====================")
	t.appendLine("")

	if len(prog.Functions) == 1 {
		t.appendLine("This programme consists of one function.")
	} else {
		t.appendLine(fmt.Sprintf("This programme consists of %d functions.", len(prog.Functions)))
	}
	t.appendLine("")

	for _, fn := range prog.Functions {
		if fd, ok := fn.(*ast.FuncDecl); ok {
			t.function(fd)
		}
	}
	return t.output.String(), nil
}

// appendLine writes one indented line.  Blank lines carry no indentation.
func (t *translator) appendLine(text string) {
	if text != "" {
		t.output.WriteString(strings.Repeat("  ", t.indent))
		t.output.WriteString(text)
	}
	t.output.WriteString("\n")
}

func describeParam(p *ast.Param) string {
	if p.IsArray {
		return p.Type + " (array)"
	}
	return p.Type
}

func (t *translator) function(fn *ast.FuncDecl) {
	header := fmt.Sprintf("Function: %s", fn.Name)
	t.appendLine(header)
	t.output.WriteString(strings.Repeat("-", len(header)))
	t.output.WriteString("\n")

	switch len(fn.Params) {
	case 0:
		t.appendLine(fmt.Sprintf("This function accepts no parameters and returns a value of type %s.", fn.ReturnType))
	case 1:
		p := fn.Params[0]
		t.appendLine(fmt.Sprintf("This function accepts one parameter named '%s' of type %s, and returns a value of type %s.",
			p.Name, describeParam(p), fn.ReturnType))
	default:
		t.appendLine(fmt.Sprintf("This function accepts %d parameters and returns a value of type %s.",
			len(fn.Params), fn.ReturnType))
	}
	t.appendLine("")

	if len(fn.Params) > 1 {
		t.appendLine("Parameters:")
		for _, p := range fn.Params {
			t.appendLine(fmt.Sprintf("  • '%s': %s", p.Name, describeParam(p)))
		}
		t.appendLine("")
	}

	if fn.Name == "main" {
		t.appendLine("This is the main entry point of the programme.")
		t.appendLine("")
	}

	t.appendLine("The function performs the following steps:")
	t.appendLine("")

	if body, ok := fn.Body.(*ast.Block); ok {
		t.indent = 1
		for i, stmt := range body.Stmts {
			t.statement(stmt, i+1)
		}
		t.indent = 0
	}
	t.appendLine("")
}

// body renders the statements of a loop or branch body without step
// numbers, flattening a block into its statements.
func (t *translator) body(node ast.Node) {
	if node == nil {
		return
	}
	t.indent++
	if block, ok := node.(*ast.Block); ok {
		for _, stmt := range block.Stmts {
			t.statement(stmt, 0)
		}
	} else {
		t.statement(node, 0)
	}
	t.indent--
}

func (t *translator) statement(node ast.Node, step int) {
	if node == nil {
		return
	}

	prefix := ""
	if step > 0 {
		prefix = fmt.Sprintf("%d. ", step)
	}

	switch n := node.(type) {
	case *ast.VarDecl:
		switch {
		case n.IsArray:
			t.appendLine(fmt.Sprintf("%sDeclare an array named '%s' of type %s with %s elements.",
				prefix, n.Name, n.VarType, t.expr(n.Size)))
		case n.Init != nil:
			t.appendLine(fmt.Sprintf("%sDeclare a variable named '%s' of type %s, initialised to %s.",
				prefix, n.Name, n.VarType, t.expr(n.Init)))
		default:
			t.appendLine(fmt.Sprintf("%sDeclare a variable named '%s' of type %s.",
				prefix, n.Name, n.VarType))
		}
		t.appendLine("")

	case *ast.CondStmt:
		t.appendLine(fmt.Sprintf("%sIf the condition \"%s\" is true, then:", prefix, t.expr(n.Cond)))
		t.body(n.Then)
		if n.Else != nil {
			t.appendLine("  Otherwise:")
			t.body(n.Else)
		}
		t.appendLine("")

	case *ast.WhileStmt:
		t.appendLine(fmt.Sprintf("%sWhilst the condition \"%s\" remains true, repeatedly perform the following:",
			prefix, t.expr(n.Cond)))
		t.body(n.Body)
		t.appendLine("")

	case *ast.DoWhileStmt:
		t.appendLine(fmt.Sprintf("%sRepeatedly perform the following:", prefix))
		t.body(n.Body)
		t.appendLine(fmt.Sprintf("Continue whilst the condition \"%s\" remains true.", t.expr(n.Cond)))
		t.appendLine("")

	case *ast.ForStmt:
		init := "nothing"
		if n.Init != nil {
			init = t.forInit(n.Init)
		}
		cond := "true"
		if n.Cond != nil {
			cond = t.expr(n.Cond)
		}
		post := "nothing"
		if n.Post != nil {
			post = t.expr(n.Post)
		}
		t.appendLine(fmt.Sprintf("%sBeginning with %s, and continuing whilst the condition \"%s\" holds, repeatedly perform the following operations, and after each iteration %s:",
			prefix, init, cond, post))
		t.body(n.Body)
		t.appendLine("")

	case *ast.SwitchStmt:
		t.appendLine(fmt.Sprintf("%sDepending on the value of %s:", prefix, t.expr(n.Expr)))
		t.indent++
		for _, clause := range n.Clauses {
			switch c := clause.(type) {
			case *ast.CaseClause:
				t.appendLine(fmt.Sprintf("When it equals %s:", t.expr(c.Value)))
				t.indent++
				for _, stmt := range c.Stmts {
					t.statement(stmt, 0)
				}
				t.indent--
			case *ast.DefaultClause:
				t.appendLine("Otherwise (default):")
				t.indent++
				for _, stmt := range c.Stmts {
					t.statement(stmt, 0)
				}
				t.indent--
			}
		}
		t.indent--
		t.appendLine("")

	case *ast.ReturnStmt:
		if n.Value != nil {
			t.appendLine(fmt.Sprintf("%sReturn %s.", prefix, t.expr(n.Value)))
		} else {
			t.appendLine(fmt.Sprintf("%sReturn (void).", prefix))
		}
		t.appendLine("")

	case *ast.BreakStmt:
		t.appendLine("Exit the loop immediately.")
		t.appendLine("")

	case *ast.ContinueStmt:
		t.appendLine("Skip to the next iteration of the loop.")
		t.appendLine("")

	case *ast.GotoStmt:
		t.appendLine(fmt.Sprintf("%sJump to label '%s'.", prefix, n.Label))
		t.appendLine("")

	case *ast.LabeledStmt:
		t.appendLine(fmt.Sprintf("Label '%s':", n.Name))
		if n.Stmt != nil {
			t.statement(n.Stmt, 0)
		}

	case *ast.Block:
		for i, stmt := range n.Stmts {
			if step > 0 {
				t.statement(stmt, i+1)
			} else {
				t.statement(stmt, 0)
			}
		}

	default:
		line := t.expr(node) + "."
		if line[0] >= 'a' && line[0] <= 'z' {
			line = string(line[0]-'a'+'A') + line[1:]
		}
		t.appendLine(prefix + line)
		t.appendLine("")
	}
}

// forInit renders the init clause of a for loop, which may be a
// declaration rather than an expression.
func (t *translator) forInit(node ast.Node) string {
	if d, ok := node.(*ast.VarDecl); ok {
		if d.Init != nil {
			return fmt.Sprintf("'%s' set to %s", d.Name, t.expr(d.Init))
		}
		return fmt.Sprintf("a new variable named '%s'", d.Name)
	}
	return t.expr(node)
}

func (t *translator) expr(node ast.Node) string {
	if node == nil {
		return "nothing"
	}

	switch n := node.(type) {
	case *ast.Literal:
		switch n.LitType {
		case "number":
			return fmt.Sprintf("the value %s", n.Value)
		case "string":
			return "\"" + n.Value + "\""
		case "char":
			return fmt.Sprintf("the character '%s'", n.Value)
		}
		return n.Value

	case *ast.ID:
		return fmt.Sprintf("'%s'", n.Name)

	case *ast.BinaryExpr:
		return t.binary(n)

	case *ast.UnaryExpr:
		return t.unary(n)

	case *ast.TernaryExpr:
		return fmt.Sprintf("if %s then %s, otherwise %s", t.expr(n.Cond), t.expr(n.Then), t.expr(n.Else))

	case *ast.AssignExpr:
		return fmt.Sprintf("set %s to %s", t.expr(n.Target), t.expr(n.Value))

	case *ast.OpAssignExpr:
		return t.opAssign(n)

	case *ast.CallExpr:
		return t.call(n)

	case *ast.IndexExpr:
		return fmt.Sprintf("the element at position %s in the array '%s'", t.expr(n.Index), n.Name)

	case *ast.MemberExpr:
		if n.Arrow {
			return fmt.Sprintf("the '%s' member of the structure pointed to by %s", n.Member, t.expr(n.Object))
		}
		return fmt.Sprintf("the '%s' member of %s", n.Member, t.expr(n.Object))

	case *ast.SizeofExpr:
		if n.TypeName != "" {
			return fmt.Sprintf("the size in bytes of type '%s'", n.TypeName)
		}
		return fmt.Sprintf("the size in bytes of %s", t.expr(n.Expr))

	case *ast.CastExpr:
		return fmt.Sprintf("%s converted to type '%s'", t.expr(n.Expr), n.TypeName)
	}

	return "an expression"
}

func (t *translator) binary(n *ast.BinaryExpr) string {
	left := t.expr(n.LHS)
	right := t.expr(n.RHS)

	switch n.Op {
	case "+":
		return fmt.Sprintf("the sum of %s and %s", left, right)
	case "-":
		return fmt.Sprintf("the difference between %s and %s", left, right)
	case "*":
		return fmt.Sprintf("the product of %s and %s", left, right)
	case "/":
		return fmt.Sprintf("%s divided by %s", left, right)
	case "%":
		return fmt.Sprintf("the remainder when %s is divided by %s", left, right)
	case "==":
		return fmt.Sprintf("%s is equal to %s", left, right)
	case "!=":
		return fmt.Sprintf("%s is not equal to %s", left, right)
	case "<":
		return fmt.Sprintf("%s is less than %s", left, right)
	case "<=":
		return fmt.Sprintf("%s is less than or equal to %s", left, right)
	case ">":
		return fmt.Sprintf("%s is greater than %s", left, right)
	case ">=":
		return fmt.Sprintf("%s is greater than or equal to %s", left, right)
	case "&&":
		return fmt.Sprintf("both %s and %s", left, right)
	case "||":
		return fmt.Sprintf("either %s or %s", left, right)
	case "&":
		return fmt.Sprintf("the bitwise AND of %s and %s", left, right)
	case "|":
		return fmt.Sprintf("the bitwise OR of %s and %s", left, right)
	case "^":
		return fmt.Sprintf("the bitwise XOR of %s and %s", left, right)
	case "<<":
		return fmt.Sprintf("%s left-shifted by %s bits", left, right)
	case ">>":
		return fmt.Sprintf("%s right-shifted by %s bits", left, right)
	}
	return fmt.Sprintf("%s %s %s", left, n.Op, right)
}

func (t *translator) unary(n *ast.UnaryExpr) string {
	operand := t.expr(n.Expr)

	if n.Postfix {
		switch n.Op {
		case "++":
			return fmt.Sprintf("increment %s by 1", operand)
		case "--":
			return fmt.Sprintf("decrement %s by 1", operand)
		}
	}
	switch n.Op {
	case "!":
		return fmt.Sprintf("not %s", operand)
	case "-":
		return fmt.Sprintf("negative %s", operand)
	case "+":
		return operand
	case "++":
		return fmt.Sprintf("%s incremented by 1", operand)
	case "--":
		return fmt.Sprintf("%s decremented by 1", operand)
	case "~":
		return fmt.Sprintf("the bitwise complement of %s", operand)
	case "&":
		return fmt.Sprintf("the address of %s", operand)
	case "*":
		return fmt.Sprintf("the value stored at the memory location referenced by %s", operand)
	}
	return fmt.Sprintf("%s %s", n.Op, operand)
}

func (t *translator) opAssign(n *ast.OpAssignExpr) string {
	target := t.expr(n.Target)
	value := t.expr(n.Value)

	switch n.Op {
	case "+=":
		return fmt.Sprintf("increase %s by %s", target, value)
	case "-=":
		return fmt.Sprintf("decrease %s by %s", target, value)
	case "*=":
		return fmt.Sprintf("multiply %s by %s", target, value)
	case "/=":
		return fmt.Sprintf("divide %s by %s", target, value)
	case "%=":
		return fmt.Sprintf("set %s to the remainder when divided by %s", target, value)
	case "&=":
		return fmt.Sprintf("bitwise AND %s with %s", target, value)
	case "|=":
		return fmt.Sprintf("bitwise OR %s with %s", target, value)
	case "^=":
		return fmt.Sprintf("bitwise XOR %s with %s", target, value)
	case "<<=":
		return fmt.Sprintf("left-shift %s by %s bits", target, value)
	case ">>=":
		return fmt.Sprintf("right-shift %s by %s bits", target, value)
	}
	return fmt.Sprintf("apply %s to %s with %s", n.Op, target, value)
}

func (t *translator) call(n *ast.CallExpr) string {
	switch n.Name {
	case "printf":
		if len(n.Args) > 0 {
			if lit, ok := n.Args[0].(*ast.Literal); ok {
				return fmt.Sprintf("display the message \"%s\"", lit.Value)
			}
			return "display formatted output to the user"
		}
		return "display output to the user"

	case "strlen":
		if len(n.Args) > 0 {
			return fmt.Sprintf("determine the length of the text stored in %s", t.expr(n.Args[0]))
		}
		return "determine the length of a text string"
	}

	if desc, ok := callDescriptions[n.Name]; ok {
		return desc
	}

	if len(n.Args) > 0 {
		args := make([]string, 0, len(n.Args))
		for _, arg := range n.Args {
			args = append(args, t.expr(arg))
		}
		return fmt.Sprintf("call the '%s' function with arguments %s", n.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("call the '%s' function", n.Name)
}
