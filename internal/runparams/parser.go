package runparams

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"liquefy/internal/errors"
)

// Default patterns accept names like Test01_CSR0.40_e0.750_(1).xlsx
const (
	DefaultCSRPattern       = `_CSR(\d+\.\d+)`
	DefaultVoidRatioPattern = `_e(\d+\.\d+)`
)

// Params are the run parameters encoded in a spreadsheet's file name
type Params struct {
	CSR       float64
	VoidRatio float64
}

// Parser extracts Params from file names. The first capture group of each pattern is the value.
type Parser struct {
	csr       *regexp.Regexp
	voidRatio *regexp.Regexp
}

// NewParser compiles the CSR and void-ratio patterns
func NewParser(csrPattern, voidRatioPattern string) (*Parser, error) {
	csr, err := compile("CSR", csrPattern)
	if err != nil {
		return nil, err
	}
	voidRatio, err := compile("void ratio", voidRatioPattern)
	if err != nil {
		return nil, err
	}
	return &Parser{csr: csr, voidRatio: voidRatio}, nil
}

// DefaultParser uses DefaultCSRPattern and DefaultVoidRatioPattern
func DefaultParser() *Parser {
	return &Parser{
		csr:       regexp.MustCompile(DefaultCSRPattern),
		voidRatio: regexp.MustCompile(DefaultVoidRatioPattern),
	}
}

func compile(name, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "%s pattern %q", name, pattern)
	}
	if re.NumSubexp() < 1 {
		return nil, errors.ConfigInvalid(fmt.Sprintf("%s pattern %q has no capture group", name, pattern))
	}
	return re, nil
}

// Parse reads CSR and void ratio from the base name of path
func (p *Parser) Parse(path string) (Params, error) {
	name := filepath.Base(path)

	csr, err := match(p.csr, name, "CSR")
	if err != nil {
		return Params{}, err
	}
	voidRatio, err := match(p.voidRatio, name, "void ratio")
	if err != nil {
		return Params{}, err
	}
	return Params{CSR: csr, VoidRatio: voidRatio}, nil
}

func match(re *regexp.Regexp, name, param string) (float64, error) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0, errors.ParseError(name, fmt.Sprintf("no %s value matching %s", param, re))
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.ParseError(name, fmt.Sprintf("%s value %q is not a number", param, m[1]))
	}
	return v, nil
}
