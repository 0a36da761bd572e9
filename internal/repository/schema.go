package repository

// Schema provisions the hosted database: profiles keyed by auth identity, tools and
// news with admin-only write policies, the signup trigger and the usage counter
// function. The service never runs it; admins paste it into the SQL editor.
const Schema = `-- Enable UUID extension
create extension if not exists "uuid-ossp";

-- PROFILES TABLE
create table if not exists public.profiles (
  id uuid references auth.users on delete cascade not null primary key,
  email text,
  role text default 'user' check (role in ('user', 'admin')),
  plan text default 'free',
  subscription_end timestamp with time zone,
  generations_count integer default 0,
  created_at timestamp with time zone default timezone('utc'::text, now()) not null
);

alter table public.profiles enable row level security;
create policy "Public profiles are viewable by everyone." on public.profiles for select using ( true );
create policy "Users can insert their own profile." on public.profiles for insert with check ( auth.uid() = id );
create policy "Users can update own profile." on public.profiles for update using ( auth.uid() = id );

-- TOOLS TABLE
create table if not exists public.tools (
  id uuid default gen_random_uuid() primary key,
  created_at timestamp with time zone default timezone('utc'::text, now()) not null,
  name text not null,
  description text,
  category text,
  tags text[],
  price text,
  image_url text,
  website text,
  features text[],
  use_cases text[],
  pros text[],
  cons text[],
  how_to_use text,
  slides jsonb,
  tutorial jsonb,
  course jsonb,
  page text default 'free-tools'
);

alter table public.tools enable row level security;
create policy "Tools are viewable by everyone." on public.tools for select using ( true );
create policy "Admins can insert tools." on public.tools for insert with check ( exists ( select 1 from public.profiles where profiles.id = auth.uid() and profiles.role = 'admin' ));
create policy "Admins can update tools." on public.tools for update using ( exists ( select 1 from public.profiles where profiles.id = auth.uid() and profiles.role = 'admin' ));
create policy "Admins can delete tools." on public.tools for delete using ( exists ( select 1 from public.profiles where profiles.id = auth.uid() and profiles.role = 'admin' ));

-- NEWS TABLE
create table if not exists public.news (
  id uuid default gen_random_uuid() primary key,
  created_at timestamp with time zone default timezone('utc'::text, now()) not null,
  title text not null,
  description text,
  content text,
  category text,
  source text,
  image_url text,
  date timestamp with time zone default timezone('utc'::text, now())
);

alter table public.news enable row level security;
create policy "News are viewable by everyone." on public.news for select using ( true );
create policy "Admins can insert news." on public.news for insert with check ( exists ( select 1 from public.profiles where profiles.id = auth.uid() and profiles.role = 'admin' ));
create policy "Admins can update news." on public.news for update using ( exists ( select 1 from public.profiles where profiles.id = auth.uid() and profiles.role = 'admin' ));
create policy "Admins can delete news." on public.news for delete using ( exists ( select 1 from public.profiles where profiles.id = auth.uid() and profiles.role = 'admin' ));

-- TRIGGERS & FUNCTIONS
create or replace function public.handle_new_user() returns trigger as $$
begin
  insert into public.profiles (id, email, role) values (new.id, new.email, 'user');
  perform pg_notify('auth_events', json_build_object('event', 'SIGNED_IN', 'user_id', new.id)::text);
  return new;
end;
$$ language plpgsql security definer;

create or replace trigger on_auth_user_created after insert on auth.users for each row execute procedure public.handle_new_user();

create or replace function public.notify_profile_updated() returns trigger as $$
begin
  perform pg_notify('auth_events', json_build_object('event', 'USER_UPDATED', 'user_id', new.id)::text);
  return new;
end;
$$ language plpgsql security definer;

create or replace trigger on_profile_updated after update on public.profiles for each row execute procedure public.notify_profile_updated();

create or replace function public.notify_profile_deleted() returns trigger as $$
begin
  perform pg_notify('auth_events', json_build_object('event', 'SIGNED_OUT', 'user_id', old.id)::text);
  return old;
end;
$$ language plpgsql security definer;

create or replace trigger on_profile_deleted after delete on public.profiles for each row execute procedure public.notify_profile_deleted();

-- ATOMIC INCREMENT FUNCTION
create or replace function increment_generations(user_id uuid)
returns void as $$
begin
  update public.profiles
  set generations_count = coalesce(generations_count, 0) + 1
  where id = user_id;
end;
$$ language plpgsql security definer;
`
