package analyzer

import "io/fs"

// Project types
const (
	TypeWeb           = "web"
	TypeAPI           = "api"
	TypeMobile        = "mobile"
	TypeDesktop       = "desktop"
	TypeLibrary       = "library"
	TypeDocumentation = "documentation"
	TypeData          = "data"
	TypeAI            = "ai"
	TypeBlockchain    = "blockchain"
	TypeGame          = "game"
	TypeGeneric       = "generic"
)

// ProjectTypes lists every type in tie-break order.
var ProjectTypes = []string{
	TypeWeb, TypeAPI, TypeMobile, TypeDesktop, TypeLibrary, TypeDocumentation,
	TypeData, TypeAI, TypeBlockchain, TypeGame, TypeGeneric,
}

type typeDetector func(fsys fs.FS, files []string, deps Dependencies) typeCandidate

var typeDetectors = []typeDetector{
	detectWeb,
	detectAPI,
	detectMobile,
	detectDesktop,
	detectLibrary,
	detectDocumentation,
	detectData,
	detectAI,
	detectBlockchain,
	detectGame,
}

func detectWeb(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeWeb, fsys, files, deps).
		CheckAnyFile([]string{"index.html", "public/index.html"}, ScoreIndicatorFile, "index.html").
		CheckAnyFile([]string{"webpack.config.js", "vite.config.js", "vite.config.ts"}, ScoreIndicatorFile, "bundler config").
		CheckAnyDependency([]string{"react", "vue", "@angular/core", "svelte", "next", "nuxt"}, ScoreDependency, "frontend framework dependency").
		CheckAnyDependency([]string{"laravel/framework", "symfony/framework-bundle", "django", "rails"}, ScoreDependency, "full-stack framework dependency").
		CheckDir("resources/views", ScoreIndicatorDir, "resources/views/").
		CheckDir("templates", ScoreIndicatorDir, "templates/").
		Build()
}

func detectAPI(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeAPI, fsys, files, deps).
		CheckDir("api", ScoreIndicatorDir, "api/").
		CheckDir("routes", ScoreIndicatorDir, "routes/").
		CheckDir("controllers", ScoreIndicatorDir, "controllers/").
		CheckAnyFile([]string{"app.py", "server.js", "openapi.yaml", "openapi.json"}, ScoreIndicatorFile, "server entrypoint").
		CheckAnyDependency([]string{"express", "koa", "fastify", "@nestjs/core", "fastapi", "flask", "gin-gonic/gin", "github.com/gin-gonic/gin", "github.com/labstack/echo/v4", "github.com/gofiber/fiber/v2"}, ScoreDependency, "http framework dependency").
		Build()
}

func detectMobile(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeMobile, fsys, files, deps).
		CheckDir("android", ScoreIndicatorDir, "android/").
		CheckDir("ios", ScoreIndicatorDir, "ios/").
		CheckFile("pubspec.yaml", ScoreIndicatorFile, "pubspec.yaml").
		CheckAnyDependency([]string{"react-native", "expo", "flutter", "@ionic/core"}, ScoreDependency, "mobile framework dependency").
		Build()
}

func detectDesktop(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeDesktop, fsys, files, deps).
		CheckDir("electron", ScoreIndicatorDir, "electron/").
		CheckDir("src-tauri", ScoreIndicatorDir, "src-tauri/").
		CheckAnyFile([]string{"electron-builder.yml", "tauri.conf.json"}, ScoreIndicatorFile, "desktop packaging config").
		CheckAnyDependency([]string{"electron", "tauri", "@tauri-apps/api", "pyqt5", "pyside6", "tkinter"}, ScoreDependency, "desktop framework dependency").
		Build()
}

func detectLibrary(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeLibrary, fsys, files, deps).
		CheckDir("lib", ScoreIndicatorDir, "lib/").
		CheckDir("src/lib", ScoreIndicatorDir, "src/lib/").
		CheckAnyFile([]string{"setup.py", "setup.cfg"}, ScoreIndicatorFile, "python package metadata").
		CheckFile("src/lib.rs", ScoreIndicatorFile, "src/lib.rs").
		Build()
}

func detectDocumentation(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeDocumentation, fsys, files, deps).
		CheckDir("docs", ScoreIndicatorDir, "docs/").
		CheckAnyFile([]string{"mkdocs.yml", "docusaurus.config.js", "book.toml", "hugo.toml"}, ScoreIndicatorFile, "docs site config").
		CheckAnyDependency([]string{"@docusaurus/core", "vitepress", "mkdocs"}, ScoreDependency, "docs generator dependency").
		Build()
}

func detectData(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeData, fsys, files, deps).
		CheckDir("notebooks", ScoreIndicatorDir, "notebooks/").
		CheckDir("data", ScoreIndicatorDir, "data/").
		CheckDir("datasets", ScoreIndicatorDir, "datasets/").
		CheckPattern("**/*.ipynb", ScoreFilePattern, "jupyter notebooks").
		CheckAnyDependency([]string{"pandas", "numpy", "polars", "dbt-core", "pyspark"}, ScoreDependency, "data tooling dependency").
		Build()
}

func detectAI(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeAI, fsys, files, deps).
		CheckDir("models", ScoreIndicatorDir, "models/").
		CheckDir("training", ScoreIndicatorDir, "training/").
		CheckDir("ml", ScoreIndicatorDir, "ml/").
		CheckPattern("**/*.ipynb", ScoreFilePattern, "jupyter notebooks").
		CheckAnyDependency([]string{"torch", "tensorflow", "transformers", "scikit-learn", "langchain", "openai", "anthropic"}, ScoreDependency, "machine learning dependency").
		Build()
}

func detectBlockchain(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeBlockchain, fsys, files, deps).
		CheckDir("contracts", ScoreIndicatorDir, "contracts/").
		CheckAnyFile([]string{"truffle-config.js", "hardhat.config.js", "hardhat.config.ts", "foundry.toml"}, ScoreIndicatorFile, "smart contract toolchain").
		CheckPattern("**/*.sol", ScoreFilePattern, "solidity sources").
		CheckAnyDependency([]string{"ethers", "web3", "hardhat"}, ScoreDependency, "web3 dependency").
		Build()
}

func detectGame(fsys fs.FS, files []string, deps Dependencies) typeCandidate {
	return NewTypeBuilder(TypeGame, fsys, files, deps).
		CheckDir("unity", ScoreIndicatorDir, "unity/").
		CheckDir("godot", ScoreIndicatorDir, "godot/").
		CheckDir("assets/textures", ScoreIndicatorDir, "assets/textures/").
		CheckFile("project.godot", ScoreIndicatorFile, "project.godot").
		CheckAnyDependency([]string{"phaser", "pygame", "three", "bevy"}, ScoreDependency, "game engine dependency").
		Build()
}

// detectProjectType picks the highest scoring type. Ties go to the type
// declared first; nothing scoring yields generic.
func detectProjectType(fsys fs.FS, files []string, deps Dependencies) (string, []string) {
	var best typeCandidate
	for _, detect := range typeDetectors {
		c := detect(fsys, files, deps)
		if c.Score > best.Score {
			best = c
		}
	}
	if best.Score == 0 {
		return TypeGeneric, []string{"no project type indicators"}
	}
	return best.Type, best.Signals
}
