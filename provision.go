package unarchive

import (
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// ProvisionedBinary is a native unrar executable materialized on disk.
// Once created it stays valid for the remaining process lifetime, until the
// owning [Provisioner] is closed.
type ProvisionedBinary struct {
	// Path is the absolute path of the executable
	Path string
}

// Provisioner makes a platform-appropriate unrar executable available on
// disk exactly once per process, without requiring pre-installation. A
// failure to provision is expected on unsupported platforms and degrades
// modern rar support only.
//
// The Provisioner is safe for concurrent use; racing callers of
// [Provisioner.EnsureAvailable] observe the identical binary.
type Provisioner struct {
	platform  Platform
	resources fs.FS
	override  string
	logger    logger

	once sync.Once
	bin  *ProvisionedBinary
	err  error
}

// NewProvisioner returns a Provisioner for the host platform backed by the
// embedded binaries.
func NewProvisioner(c *Config) *Provisioner {
	return newProvisioner(DetectPlatform(), nativeBinaries, c)
}

// newProvisioner allows tests to inject a platform and resource tree.
func newProvisioner(p Platform, resources fs.FS, c *Config) *Provisioner {
	return &Provisioner{
		platform:  p,
		resources: resources,
		override:  c.NativeUnrarPath(),
		logger:    c.Logger(),
	}
}

// EnsureAvailable materializes the binary on first demand and returns the
// cached result on every later call, including the cached failure.
func (p *Provisioner) EnsureAvailable() (*ProvisionedBinary, error) {
	p.once.Do(func() {
		p.bin, p.err = p.provision()
	})
	return p.bin, p.err
}

// Available is a non-failing pre-check for the native capability.
func (p *Provisioner) Available() bool {
	_, err := p.EnsureAvailable()
	return err == nil
}

// provision materializes the binary. All failure paths wrap
// [ErrNativeUnavailable] with the specific reason.
func (p *Provisioner) provision() (*ProvisionedBinary, error) {
	// a configured executable takes precedence over the bundled one
	if p.override != "" {
		if _, err := os.Stat(p.override); err != nil {
			p.logger.Warn("configured unrar binary not usable", "path", p.override, "error", err)
			return nil, fmt.Errorf("%w: configured binary %s: %v", ErrNativeUnavailable, p.override, err)
		}
		p.logger.Info("using configured unrar binary", "path", p.override)
		return &ProvisionedBinary{Path: p.override}, nil
	}

	if !p.platform.Profile.Supported() {
		p.logger.Warn("platform not supported for native unrar", "platform", p.platform)
		return nil, fmt.Errorf("%w: unsupported platform %s", ErrNativeUnavailable, p.platform)
	}

	key := p.platform.Profile.resourceKey()
	data, err := fs.ReadFile(p.resources, key)
	if err != nil {
		p.logger.Warn("bundled unrar binary missing", "resource", key, "error", err)
		return nil, fmt.Errorf("%w: missing bundled resource %s", ErrNativeUnavailable, key)
	}

	tmp, err := os.CreateTemp("", "unrar_*_"+p.platform.Profile.binaryName())
	if err != nil {
		p.logger.Warn("cannot create temp file for unrar binary", "error", err)
		return nil, fmt.Errorf("%w: cannot create temp file: %v", ErrNativeUnavailable, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		p.logger.Warn("cannot write unrar binary", "path", tmp.Name(), "error", err)
		return nil, fmt.Errorf("%w: cannot write binary: %v", ErrNativeUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("%w: cannot close binary: %v", ErrNativeUnavailable, err)
	}

	// the executable bit does not exist on windows
	if p.platform.OS != "windows" {
		if err := markExecutable(tmp.Name()); err != nil {
			os.Remove(tmp.Name())
			p.logger.Warn("cannot mark unrar binary executable", "path", tmp.Name(), "error", err)
			return nil, fmt.Errorf("%w: cannot mark binary executable: %v", ErrNativeUnavailable, err)
		}
	}

	p.logger.Info("provisioned native unrar binary", "path", tmp.Name(), "platform", p.platform)
	return &ProvisionedBinary{Path: tmp.Name()}, nil
}

// Close removes the provisioned binary, best effort. Configured override
// binaries are left untouched.
func (p *Provisioner) Close() error {
	if p.bin == nil || p.override != "" {
		return nil
	}
	if err := os.Remove(p.bin.Path); err != nil && !os.IsNotExist(err) {
		p.logger.Warn("cannot remove provisioned binary", "path", p.bin.Path, "error", err)
		return err
	}
	return nil
}
