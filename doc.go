// Package sshdtest manages a disposable OpenSSH daemon for exercising SSH
// client code under automated tests.
//
// It stages throwaway credentials into a caller-supplied directory,
// reserves an ephemeral port, and supervises a real sshd process bound to
// it. The fixture owns process lifecycle only; SSH protocol behaviour is
// whatever the system sshd provides.
//
//	srv, err := sshdtest.New(t.TempDir())
//	if err != nil {
//		t.Fatal(err)
//	}
//	defer srv.Stop()
//	if err := srv.Start(ctx); err != nil {
//		t.Fatal(err)
//	}
//	// dial srv.Addr() with srv.Key() and the login from srv.Login(ctx)
//
// Linux-oriented: it shells out to id and hostname and signals process
// groups. Credentials are bundled test keys with no value outside the
// fixture; use WithGeneratedKeys for suites that must not share them.
package sshdtest
