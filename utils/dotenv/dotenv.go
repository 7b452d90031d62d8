package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DevEnv  = "dev"
	TestEnv = "test"
	ProdEnv = "prod"
)

// LoadDotEnvs loads the .env file following the convention: https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only need to be called once in main function, other code can use env through os.Getenv('ENV_NAME') during runtime
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

// RuntimeEnv returns the current runtime env, "dev" when YATUBE_ENV is unset.
func RuntimeEnv() string {
	env := os.Getenv("YATUBE_ENV")
	if env == "" {
		env = DevEnv
	}
	return env
}

func IsProdEnv() bool {
	return RuntimeEnv() == ProdEnv
}

func loadDotEnvs(rootPath string) {
	env := RuntimeEnv()

	// .env.[runtime_env].local has highest priority, usually contains username and password and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}

// LoadDotEnvsInTests loads .env.test from the module root. Tests run with the
// package directory as cwd, so walk up until go.mod is found.
func LoadDotEnvsInTests() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			godotenv.Load(filepath.Join(dir, ".env.test"))
			return nil
		}
		if filepath.Dir(dir) == dir {
			return nil
		}
	}
}
