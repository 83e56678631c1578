package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ndkports/internal/ports"
	"ndkports/internal/shared"
	"ndkports/internal/types"
)

// PrefabTreeAdapter writes the on-disk prefab layout:
//
//	prefab.json
//	modules/<module>/module.json
//	modules/<module>/include/
//	modules/<module>/libs/android.<abi>/abi.json
//	modules/<module>/libs/android.<abi>/lib<module>.so
type PrefabTreeAdapter struct{}

func NewPrefabTreeAdapter() PrefabTreeAdapter {
	return PrefabTreeAdapter{}
}

type prefabPackageJSON struct {
	Name          string   `json:"name"`
	SchemaVersion int      `json:"schema_version"`
	Dependencies  []string `json:"dependencies"`
	Version       string   `json:"version"`
}

type prefabModuleJSON struct {
	ExportLibraries []string `json:"export_libraries"`
	LibraryName     *string  `json:"library_name"`
}

type prefabAbiJSON struct {
	Abi    string `json:"abi"`
	API    int    `json:"api"`
	Ndk    int    `json:"ndk"`
	Stl    string `json:"stl"`
	Static bool   `json:"static,omitempty"`
}

func (a PrefabTreeAdapter) WritePackageTree(ctx context.Context, pkg types.PrefabPackage, prefabDir string) error {
	if pkg.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("prefab package name is empty")
	}
	if err := os.MkdirAll(prefabDir, 0o755); err != nil {
		return treeError("failed to create prefab directory", err)
	}
	dependencies := pkg.Dependencies
	if dependencies == nil {
		dependencies = []string{}
	}
	if err := writeJSON(filepath.Join(prefabDir, "prefab.json"), prefabPackageJSON{
		Name:          pkg.Name,
		SchemaVersion: pkg.SchemaVersion,
		Dependencies:  dependencies,
		Version:       pkg.Version,
	}); err != nil {
		return err
	}
	for _, module := range pkg.Modules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeModule(filepath.Join(prefabDir, "modules", module.Name), module); err != nil {
			return err
		}
	}
	return nil
}

func writeModule(moduleDir string, module types.PrefabModule) error {
	exports := module.ExportLibraries
	if exports == nil {
		exports = []string{}
	}
	meta := prefabModuleJSON{ExportLibraries: exports}
	if module.LibraryName != "" {
		name := module.LibraryName
		meta.LibraryName = &name
	}
	if err := os.MkdirAll(moduleDir, 0o755); err != nil {
		return treeError("failed to create module directory", err)
	}
	if err := writeJSON(filepath.Join(moduleDir, "module.json"), meta); err != nil {
		return err
	}
	if module.IncludeDir != "" {
		if err := copyHeaders(module.IncludeDir, filepath.Join(moduleDir, "include")); err != nil {
			return err
		}
	}
	for _, abi := range module.Abis {
		abiDir := filepath.Join(moduleDir, "libs", "android."+abi.Abi)
		if err := os.MkdirAll(abiDir, 0o755); err != nil {
			return treeError("failed to create abi directory", err)
		}
		if err := writeJSON(filepath.Join(abiDir, "abi.json"), prefabAbiJSON{
			Abi:    abi.Abi,
			API:    abi.API,
			Ndk:    abi.Ndk,
			Stl:    abi.Stl,
			Static: abi.Static,
		}); err != nil {
			return err
		}
		if abi.Library != "" {
			if err := shared.CopyFile(abi.Library, filepath.Join(abiDir, filepath.Base(abi.Library))); err != nil {
				return treeError(fmt.Sprintf("failed to copy %s", abi.Library), err)
			}
		}
		if abi.IncludeDir != "" {
			if err := copyHeaders(abi.IncludeDir, filepath.Join(abiDir, "include")); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyHeaders copies src when it exists and otherwise leaves an empty
// include directory, which prefab requires.
func copyHeaders(src string, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return treeError("failed to create include directory", err)
	}
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}
	if err := shared.CopyTree(src, dst); err != nil {
		return treeError(fmt.Sprintf("failed to copy headers from %s", src), err)
	}
	return nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode json").
			WithCause(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return treeError(fmt.Sprintf("failed to write %s", filepath.Base(path)), err)
	}
	return nil
}

func treeError(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.PackageTreePort = PrefabTreeAdapter{}
