package loginwall

// State is the point-in-time login snapshot a guarded operation consults.
// The backend satisfies it; tests substitute fakes.
type State interface {
	Connect()
	LoggedIn() bool
	VerificationLink() string
	ReclaimLoginAudio()
}

// Guard wraps a provider operation. It first gives the backend the chance
// to run a deferred blocking login (a no-op unless the lazy oauth path is
// pending), then branches: authenticated calls reclaim any leftover
// placeholder audio and delegate to live; otherwise a placeholder is
// synthesized from the pending verification link. The unauthenticated
// branch never returns an error; a pending login is a normal condition,
// not a failure.
func Guard[T any](st State, placeholder func(link string) T, live func() (T, error)) (T, error) {
	st.Connect()
	if st.LoggedIn() {
		st.ReclaimLoginAudio()
		return live()
	}
	return placeholder(st.VerificationLink()), nil
}
